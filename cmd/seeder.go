package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	accountDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/account"
	crmDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/crm"
	tenantDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/tenant"
	userDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	permissionPostgres "github.com/frahmantamala/tenant-crm/internal/permission/postgres"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "password"

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the permission catalog and default role grants",
	Long: `Seed the permission catalog and the default role grants. Existing grants,
including explicit revokes, are left untouched. With --demo a small set of
tenants, users and CRM records is created for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		lg := logger.Configure(cmd.OutOrStdout(), cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx := context.Background()
		svc := permission.NewService(permissionPostgres.NewPermissionRepository(gdb), nil, lg)
		created, err := svc.SeedDefaults(ctx)
		if err != nil {
			log.Fatalf("failed to seed permissions: %v", err)
		}
		fmt.Printf("Seeded %d permissions, %d new role grants\n", len(permission.Definitions()), created)

		if !seedDemo {
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash demo password: %v", err)
		}
		if err := seedDemoData(ctx, gdb, string(hash)); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		fmt.Printf("Seeded demo data; every demo user logs in with %q\n", demoPassword)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also create demo tenants, users and CRM records")
}

type demoUser struct {
	email  string
	name   string
	role   permission.Role
	tenant string
	unit   string
}

var demoUsers = []demoUser{
	{email: "root@crm.test", name: "Root", role: permission.RoleSystemAdmin},
	{email: "admin@acme.test", name: "Acme Admin", role: permission.RoleTenantAdmin, tenant: "Acme"},
	{email: "manager@acme.test", name: "Acme North Manager", role: permission.RoleSalesManager, tenant: "Acme", unit: "Acme North"},
	{email: "rep@acme.test", name: "Rita Rep", role: permission.RoleSalesRep, tenant: "Acme", unit: "Acme North"},
	{email: "rep2@acme.test", name: "Ravi Rep", role: permission.RoleSalesRep, tenant: "Acme", unit: "Acme North"},
	{email: "admin@globex.test", name: "Globex Admin", role: permission.RoleTenantAdmin, tenant: "Globex"},
}

// seedDemoData is idempotent: every row is matched on a natural key first.
func seedDemoData(ctx context.Context, db *gorm.DB, passwordHash string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenants := map[string]int64{}
		for _, name := range []string{"Acme", "Globex"} {
			t := tenantDatamodel.Tenant{Name: name, Status: "active"}
			if err := tx.Where(tenantDatamodel.Tenant{Name: name}).FirstOrCreate(&t).Error; err != nil {
				return fmt.Errorf("tenant %s: %w", name, err)
			}
			tenants[name] = t.ID
		}

		units := map[string]int64{}
		for _, u := range []struct{ tenant, name string }{
			{"Acme", "Acme North"},
			{"Acme", "Acme South"},
			{"Globex", "Globex HQ"},
		} {
			bu := tenantDatamodel.BusinessUnit{TenantID: tenants[u.tenant], Name: u.name}
			if err := tx.Where(tenantDatamodel.BusinessUnit{TenantID: tenants[u.tenant], Name: u.name}).FirstOrCreate(&bu).Error; err != nil {
				return fmt.Errorf("business unit %s: %w", u.name, err)
			}
			units[u.name] = bu.ID
		}

		users := map[string]int64{}
		for _, du := range demoUsers {
			row := userDatamodel.User{
				Email:        du.email,
				Name:         du.name,
				PasswordHash: passwordHash,
				Role:         string(du.role),
				Status:       "active",
			}
			if du.tenant != "" {
				row.TenantID = ref(tenants[du.tenant])
			}
			if du.unit != "" {
				row.BusinessUnitID = ref(units[du.unit])
			}
			if err := tx.Where(userDatamodel.User{Email: du.email}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("user %s: %w", du.email, err)
			}
			users[du.email] = row.ID
		}

		if err := tx.Model(&tenantDatamodel.BusinessUnit{}).
			Where("id = ? AND manager_id IS NULL", units["Acme North"]).
			Update("manager_id", users["manager@acme.test"]).Error; err != nil {
			return fmt.Errorf("assign unit manager: %w", err)
		}

		for _, a := range []accountDatamodel.Account{
			{Name: "Northwind Traders", Industry: "Retail", TenantID: ref(tenants["Acme"]), BusinessUnitID: ref(units["Acme North"]), ManagerID: ref(users["rep@acme.test"])},
			{Name: "Blue Harbor", Industry: "Logistics", TenantID: ref(tenants["Acme"]), BusinessUnitID: ref(units["Acme North"]), ManagerID: ref(users["rep2@acme.test"])},
			{Name: "Southern Cross", Industry: "Energy", TenantID: ref(tenants["Acme"]), BusinessUnitID: ref(units["Acme South"])},
			{Name: "Globex Holdings", Industry: "Finance", TenantID: ref(tenants["Globex"]), BusinessUnitID: ref(units["Globex HQ"])},
		} {
			a.Status = "active"
			if err := tx.Where(accountDatamodel.Account{Name: a.Name, TenantID: a.TenantID}).FirstOrCreate(&a).Error; err != nil {
				return fmt.Errorf("account %s: %w", a.Name, err)
			}
		}

		for _, c := range []crmDatamodel.Customer{
			{Name: "Alice Park", Email: "alice@northwind.test", TenantID: ref(tenants["Acme"]), BusinessUnitID: ref(units["Acme North"]), AssignedToID: ref(users["rep@acme.test"])},
			{Name: "Gina Gold", Email: "gina@globex.test", TenantID: ref(tenants["Globex"]), BusinessUnitID: ref(units["Globex HQ"])},
		} {
			c.Status = "active"
			if err := tx.Where(crmDatamodel.Customer{Name: c.Name, TenantID: c.TenantID}).FirstOrCreate(&c).Error; err != nil {
				return fmt.Errorf("customer %s: %w", c.Name, err)
			}
		}

		for _, d := range []crmDatamodel.Deal{
			{Name: "Northwind renewal", Stage: "negotiation", AmountCents: 1_250_000, TenantID: ref(tenants["Acme"]), BusinessUnitID: ref(units["Acme North"]), OwnerID: ref(users["rep@acme.test"])},
			{Name: "Globex expansion", Stage: "prospecting", AmountCents: 4_000_000, TenantID: ref(tenants["Globex"]), BusinessUnitID: ref(units["Globex HQ"])},
		} {
			if err := tx.Where(crmDatamodel.Deal{Name: d.Name, TenantID: d.TenantID}).FirstOrCreate(&d).Error; err != nil {
				return fmt.Errorf("deal %s: %w", d.Name, err)
			}
		}

		due := time.Now().Add(72 * time.Hour).Truncate(time.Hour)
		for _, t := range []crmDatamodel.Task{
			{Name: "Call Northwind about renewal", DueAt: &due, TenantID: ref(tenants["Acme"]), BusinessUnitID: ref(units["Acme North"]), AssigneeID: ref(users["rep@acme.test"])},
		} {
			t.Status = "open"
			if err := tx.Where(crmDatamodel.Task{Name: t.Name, TenantID: t.TenantID}).FirstOrCreate(&t).Error; err != nil {
				return fmt.Errorf("task %s: %w", t.Name, err)
			}
		}

		return nil
	})
}

func ref(v int64) *int64 { return &v }
