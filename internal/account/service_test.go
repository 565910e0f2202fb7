package account

import (
	"context"
	"errors"
	"testing"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/auth"
	accountDatamodel "github.com/frahmantamala/tenant-crm/internal/core/datamodel/account"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/frahmantamala/tenant-crm/internal/tenancy"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestAccount(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Account Module Suite")
}

func int64Ptr(v int64) *int64 { return &v }

type mockRepository struct {
	accounts  map[int64]*accountDatamodel.Account
	units     map[int64]int64
	users     map[int64]*int64
	nextID    int64
	err       error
	lastScope tenancy.Scope
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts: map[int64]*accountDatamodel.Account{},
		units:    map[int64]int64{100: 10, 101: 10, 200: 20},
		users:    map[int64]*int64{1: int64Ptr(10), 2: int64Ptr(10), 3: int64Ptr(10), 4: nil, 8: int64Ptr(20)},
		nextID:   1,
	}
}

func (m *mockRepository) List(_ context.Context, scope tenancy.Scope, _, _ int) ([]*accountDatamodel.Account, error) {
	m.lastScope = scope
	if m.err != nil {
		return nil, m.err
	}
	var out []*accountDatamodel.Account
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*accountDatamodel.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepository) Create(_ context.Context, a *accountDatamodel.Account) error {
	if m.err != nil {
		return m.err
	}
	a.ID = m.nextID
	m.nextID++
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *mockRepository) Update(_ context.Context, a *accountDatamodel.Account) error {
	if _, ok := m.accounts[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *mockRepository) BusinessUnitTenant(_ context.Context, id int64) (int64, error) {
	t, ok := m.units[id]
	if !ok {
		return 0, ErrBusinessUnitNotFound
	}
	return t, nil
}

func (m *mockRepository) UserTenant(_ context.Context, id int64) (*int64, error) {
	t, ok := m.users[id]
	if !ok {
		return nil, ErrManagerNotFound
	}
	return t, nil
}

func fieldErrorOn(err error, field string) bool {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return false
	}
	details, ok := appErr.Details.(internal.ValidationErrors)
	if !ok {
		return false
	}
	for _, fe := range details.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

var _ = ginkgo.Describe("AccountService", func() {
	var (
		repo    *mockRepository
		service *Service
		ctx     context.Context
	)

	admin := &auth.User{ID: 1, Role: permission.RoleTenantAdmin, TenantID: int64Ptr(10)}
	manager := &auth.User{ID: 2, Role: permission.RoleSalesManager, TenantID: int64Ptr(10), BusinessUnitID: int64Ptr(100)}
	rep := &auth.User{ID: 3, Role: permission.RoleSalesRep, TenantID: int64Ptr(10), BusinessUnitID: int64Ptr(100)}
	root := &auth.User{ID: 4, Role: permission.RoleSystemAdmin}

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo, logger.Discard())
		ctx = context.Background()
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should pin an admin's account to the admin's tenant", func() {
			a, err := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*a.TenantID).To(gomega.Equal(int64(10)))
			gomega.Expect(a.BusinessUnitID).To(gomega.BeNil())
			gomega.Expect(a.Status).To(gomega.Equal(StatusActive))
		})

		ginkgo.It("should refuse an admin creating into another tenant", func() {
			_, err := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme", TenantID: int64Ptr(20)})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrResourceAccessDenied))
		})

		ginkgo.It("should default a manager's account to the manager's unit", func() {
			a, err := service.Create(ctx, manager, CreateAccountDTO{Name: "Acme"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*a.BusinessUnitID).To(gomega.Equal(int64(100)))
		})

		ginkgo.It("should refuse a manager creating into a sibling unit", func() {
			_, err := service.Create(ctx, manager, CreateAccountDTO{Name: "Acme", BusinessUnitID: int64Ptr(101)})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrResourceAccessDenied))
		})

		ginkgo.It("should make a contributor the manager of the account", func() {
			a, err := service.Create(ctx, rep, CreateAccountDTO{Name: "Acme"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*a.ManagerID).To(gomega.Equal(int64(3)))
		})

		ginkgo.It("should refuse a contributor handing the account to someone else", func() {
			_, err := service.Create(ctx, rep, CreateAccountDTO{Name: "Acme", ManagerID: int64Ptr(9)})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrResourceAccessDenied))
		})

		ginkgo.It("should take the super admin's tenant from the business unit", func() {
			a, err := service.Create(ctx, root, CreateAccountDTO{Name: "Acme", BusinessUnitID: int64Ptr(200)})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*a.TenantID).To(gomega.Equal(int64(20)))
		})

		ginkgo.It("should require the super admin to name a tenant", func() {
			_, err := service.Create(ctx, root, CreateAccountDTO{Name: "Acme"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
		})

		ginkgo.It("should reject a business unit of another tenant", func() {
			_, err := service.Create(ctx, root, CreateAccountDTO{Name: "Acme", TenantID: int64Ptr(10), BusinessUnitID: int64Ptr(200)})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
			gomega.Expect(repo.accounts).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject an unknown business unit", func() {
			_, err := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme", BusinessUnitID: int64Ptr(999)})
			gomega.Expect(err).To(gomega.MatchError(internal.NewValidationError("", internal.ErrCodeValidationFailed)))
		})

		ginkgo.It("should accept a manager from the account's tenant", func() {
			a, err := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme", ManagerID: int64Ptr(3)})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*a.ManagerID).To(gomega.Equal(int64(3)))
		})

		ginkgo.It("should reject a manager from another tenant", func() {
			_, err := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme", ManagerID: int64Ptr(8)})

			gomega.Expect(fieldErrorOn(err, "manager_id")).To(gomega.BeTrue())
			gomega.Expect(repo.accounts).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject the system admin as an account manager", func() {
			_, err := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme", ManagerID: int64Ptr(4)})
			gomega.Expect(fieldErrorOn(err, "manager_id")).To(gomega.BeTrue())
		})

		ginkgo.It("should reject an unknown manager", func() {
			_, err := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme", ManagerID: int64Ptr(999)})
			gomega.Expect(fieldErrorOn(err, "manager_id")).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a missing name", func() {
			_, err := service.Create(ctx, admin, CreateAccountDTO{})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.accounts).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("should answer not found for a missing row", func() {
			_, err := service.Get(ctx, 42)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrResourceNotFound))
		})

		ginkgo.It("should report a store failure as infrastructure", func() {
			repo.err = errors.New("connection reset")

			_, err := service.Get(ctx, 1)

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInfrastructureFailure))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should change only the fields sent", func() {
			created, err := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme", Industry: "retail"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			name := "Acme Corp"
			updated, err := service.Update(ctx, created.ID, UpdateAccountDTO{Name: &name})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Name).To(gomega.Equal("Acme Corp"))
			gomega.Expect(updated.Industry).To(gomega.Equal("retail"))
			gomega.Expect(*updated.TenantID).To(gomega.Equal(int64(10)))
		})

		ginkgo.It("should refuse to hand the account to another tenant's user", func() {
			created, err := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Update(ctx, created.ID, UpdateAccountDTO{ManagerID: int64Ptr(8)})

			gomega.Expect(fieldErrorOn(err, "manager_id")).To(gomega.BeTrue())
			gomega.Expect(repo.accounts[created.ID].ManagerID).To(gomega.BeNil())
		})

		ginkgo.It("should resolve the tenant through the unit when the row has none", func() {
			repo.accounts[50] = &accountDatamodel.Account{ID: 50, Name: "Initech", BusinessUnitID: int64Ptr(200), Status: StatusActive}

			updated, err := service.Update(ctx, 50, UpdateAccountDTO{ManagerID: int64Ptr(8)})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*updated.ManagerID).To(gomega.Equal(int64(8)))
		})

		ginkgo.It("should reject an unknown status", func() {
			created, _ := service.Create(ctx, admin, CreateAccountDTO{Name: "Acme"})
			status := "archived"

			_, err := service.Update(ctx, created.ID, UpdateAccountDTO{Status: &status})

			gomega.Expect(err).To(gomega.MatchError(internal.NewValidationError("", internal.ErrCodeValidationFailed)))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should answer not found for a missing row", func() {
			gomega.Expect(service.Delete(ctx, 42)).To(gomega.MatchError(internal.ErrResourceNotFound))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should hand the caller's scope to the store", func() {
			_, err := service.List(ctx, tenancy.ForTenant(10), 50, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			id, ok := repo.lastScope.TenantID()
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(id).To(gomega.Equal(int64(10)))
		})
	})
})
