package postgres_test

import (
	"context"
	"testing"

	tenantDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/tenant"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"github.com/frahmantamala/tenant-crm/internal/tenant"
	tenantPostgres "github.com/frahmantamala/tenant-crm/internal/tenant/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestTenantPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tenant Postgres Suite")
}

var _ = Describe("Tenant PostgreSQL Repository", func() {
	var (
		repo *tenantPostgres.TenantRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&tenantDatamodel.Tenant{})).To(Succeed())
		Expect(db.Create(&[]tenantDatamodel.Tenant{
			{ID: 1, Name: "Acme", Status: "active"},
			{ID: 2, Name: "Globex", Status: "active"},
		}).Error).To(Succeed())

		repo = tenantPostgres.NewTenantRepository(db)
		ctx = context.Background()
	})

	It("should list only the caller's own tenant", func() {
		rows, err := repo.List(ctx, tenancy.ForTenant(2), 50, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Name).To(Equal("Globex"))
	})

	It("should list every tenant unrestricted", func() {
		rows, err := repo.List(ctx, tenancy.Unrestricted(), 50, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
	})

	It("should return ErrNotFound for a missing tenant", func() {
		_, err := repo.GetByID(ctx, 3)
		Expect(err).To(MatchError(tenant.ErrNotFound))
	})
})
