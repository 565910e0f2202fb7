package user_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/tenant-crm/internal/auth"
	userDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/frahmantamala/tenant-crm/internal/user"
	userPostgres "github.com/frahmantamala/tenant-crm/internal/user/postgres"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

func ptr(v int64) *int64 { return &v }

var _ = Describe("User Handler", func() {
	var handler *user.Handler

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())
		Expect(db.Create(&[]userDatamodel.User{
			{ID: 1, Email: "root@crm.test", Name: "Root", PasswordHash: "x", Role: "SYSTEM_ADMIN", Status: "active"},
			{ID: 2, Email: "admin@acme.test", Name: "Admin", PasswordHash: "x", Role: "TENANT_ADMIN", TenantID: ptr(1), Status: "active"},
			{ID: 3, Email: "rep@acme.test", Name: "Rep", PasswordHash: "x", Role: "SALES_REP", TenantID: ptr(1), Status: "active"},
			{ID: 4, Email: "rep@globex.test", Name: "Rep", PasswordHash: "x", Role: "SALES_REP", TenantID: ptr(2), Status: "active"},
			{ID: 5, Email: "gone@acme.test", Name: "Gone", PasswordHash: "x", Role: "SALES_REP", TenantID: ptr(1), Status: "active",
				DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true}},
		}).Error).To(Succeed())

		handler = user.NewHandler(user.NewService(userPostgres.NewUserRepository(db), logger.Discard()), logger.Discard())
	})

	as := func(p *auth.Principal, h http.HandlerFunc) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if p != nil {
			req = req.WithContext(auth.ContextWithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	Describe("ListUsers", func() {
		It("should list live users of the caller's tenant", func() {
			admin := &auth.Principal{User: &auth.User{ID: 2, Role: permission.RoleTenantAdmin, TenantID: ptr(1)}}

			rec := as(admin, handler.ListUsers)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body struct {
				Data []user.User `json:"data"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Data).To(HaveLen(2))
			Expect(body.Data[0].Email).To(Equal("admin@acme.test"))
			Expect(body.Data[1].Email).To(Equal("rep@acme.test"))
		})

		It("should never expose password hashes", func() {
			root := &auth.Principal{User: &auth.User{ID: 1, Role: permission.RoleSystemAdmin}}

			rec := as(root, handler.ListUsers)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).NotTo(ContainSubstring("password"))
			Expect(rec.Body.String()).To(ContainSubstring("rep@globex.test"))
		})

		It("should answer 401 without a principal", func() {
			rec := as(nil, handler.ListUsers)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("GetCurrentUser", func() {
		It("should describe the caller with effective permissions", func() {
			p := &auth.Principal{
				User:        &auth.User{ID: 3, Email: "rep@acme.test", Role: permission.RoleSalesRep, TenantID: ptr(1)},
				Permissions: permission.NewSet(permission.DealsRead, permission.CustomersRead),
			}

			rec := as(p, handler.GetCurrentUser)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body user.CurrentUserResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Tier).To(Equal("contributor"))
			Expect(body.Permissions).To(Equal([]permission.Name{permission.CustomersRead, permission.DealsRead}))
		})
	})
})
