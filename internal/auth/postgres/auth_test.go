package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/tenant-crm/internal/auth"
	authPostgres "github.com/frahmantamala/tenant-crm/internal/auth/postgres"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var columns = []string{"id", "email", "name", "password_hash", "role", "tenant_id", "business_unit_id", "status"}

var _ = Describe("Auth PostgreSQL Repository", func() {
	var (
		mock sqlmock.Sqlmock
		repo *authPostgres.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		db, m, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		mock = m
		repo = authPostgres.NewRepository(sqlx.NewDb(db, "sqlmock"))
		ctx = context.Background()
		DeferCleanup(db.Close)
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	Describe("FindByEmail", func() {
		It("should map a tenant user with its hash", func() {
			mock.ExpectQuery(`FROM users WHERE email = \$1 AND deleted_at IS NULL`).
				WithArgs("rep@acme.test").
				WillReturnRows(sqlmock.NewRows(columns).
					AddRow(7, "rep@acme.test", "Rep", "$2a$hash", "SALES_REP", 1, 11, "active"))

			creds, err := repo.FindByEmail(ctx, "rep@acme.test")

			Expect(err).NotTo(HaveOccurred())
			Expect(creds.ID).To(Equal(int64(7)))
			Expect(creds.PasswordHash).To(Equal("$2a$hash"))
			Expect(creds.Role).To(Equal(permission.RoleSalesRep))
			Expect(*creds.TenantID).To(Equal(int64(1)))
			Expect(*creds.BusinessUnitID).To(Equal(int64(11)))
			Expect(creds.IsActive()).To(BeTrue())
		})

		It("should return ErrUserNotFound for an unknown email", func() {
			mock.ExpectQuery(`FROM users WHERE email`).
				WithArgs("nobody@acme.test").
				WillReturnRows(sqlmock.NewRows(columns))

			_, err := repo.FindByEmail(ctx, "nobody@acme.test")

			Expect(err).To(MatchError(auth.ErrUserNotFound))
		})

		It("should wrap driver failures", func() {
			mock.ExpectQuery(`FROM users WHERE email`).
				WillReturnError(errors.New("connection reset"))

			_, err := repo.FindByEmail(ctx, "rep@acme.test")

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, auth.ErrUserNotFound)).To(BeFalse())
			Expect(err.Error()).To(ContainSubstring("connection reset"))
		})
	})

	Describe("FindByID", func() {
		It("should leave tenant fields nil for a super admin", func() {
			mock.ExpectQuery(`FROM users WHERE id = \$1 AND deleted_at IS NULL`).
				WithArgs(int64(1)).
				WillReturnRows(sqlmock.NewRows(columns).
					AddRow(1, "root@crm.test", "Root", "x", "SYSTEM_ADMIN", nil, nil, "active"))

			u, err := repo.FindByID(ctx, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(u.TenantID).To(BeNil())
			Expect(u.BusinessUnitID).To(BeNil())
			Expect(u.HasRequiredTenant()).To(BeTrue())
		})

		It("should return ErrUserNotFound for a deleted user", func() {
			mock.ExpectQuery(`FROM users WHERE id`).
				WithArgs(int64(42)).
				WillReturnRows(sqlmock.NewRows(columns))

			_, err := repo.FindByID(ctx, 42)

			Expect(err).To(MatchError(auth.ErrUserNotFound))
		})
	})
})
