package permission

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/frahmantamala/tenant-crm/internal/core/events"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type grantKey struct {
	subject string
	name    Name
}

// memoryRepository keeps grants in maps; rows carry the granted flag so
// revokes are stored, not deleted.
type memoryRepository struct {
	mu         sync.Mutex
	users      map[int64]Role
	roleGrants map[Role]map[Name]bool
	userGrants map[int64]map[Name]bool
	grantedBy  map[int64]*int64
	extraRole  map[Role][]string
	defs       []Definition
	err        error
	reads      int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		users:      map[int64]Role{},
		roleGrants: map[Role]map[Name]bool{},
		userGrants: map[int64]map[Name]bool{},
		grantedBy:  map[int64]*int64{},
		extraRole:  map[Role][]string{},
	}
}

func (m *memoryRepository) UserRole(_ context.Context, userID int64) (Role, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return "", false, m.err
	}
	r, ok := m.users[userID]
	return r, ok, nil
}

func (m *memoryRepository) GrantedRolePermissions(_ context.Context, role Role) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []string
	for n, granted := range m.roleGrants[role] {
		if granted {
			out = append(out, string(n))
		}
	}
	return append(out, m.extraRole[role]...), nil
}

func (m *memoryRepository) GrantedUserPermissions(_ context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []string
	for n, granted := range m.userGrants[userID] {
		if granted {
			out = append(out, string(n))
		}
	}
	return out, nil
}

func (m *memoryRepository) EnsurePermissions(_ context.Context, defs []Definition) error {
	m.defs = defs
	return m.err
}

func (m *memoryRepository) UpsertRolePermission(_ context.Context, role Role, name Name, granted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.roleGrants[role] == nil {
		m.roleGrants[role] = map[Name]bool{}
	}
	m.roleGrants[role][name] = granted
	return nil
}

func (m *memoryRepository) SeedRolePermission(_ context.Context, role Role, name Name) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.roleGrants[role] == nil {
		m.roleGrants[role] = map[Name]bool{}
	}
	if _, exists := m.roleGrants[role][name]; exists {
		return false, nil
	}
	m.roleGrants[role][name] = true
	return true, nil
}

func (m *memoryRepository) UpsertUserPermission(_ context.Context, userID int64, name Name, granted bool, grantedBy *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.userGrants[userID] == nil {
		m.userGrants[userID] = map[Name]bool{}
	}
	m.userGrants[userID][name] = granted
	m.grantedBy[userID] = grantedBy
	return nil
}

func (m *memoryRepository) ListRolePermissions(_ context.Context, role Role) ([]Grant, error) {
	var out []Grant
	for n, g := range m.roleGrants[role] {
		out = append(out, Grant{Permission: n, Granted: g})
	}
	return out, m.err
}

func (m *memoryRepository) ListUserPermissions(_ context.Context, userID int64) ([]Grant, error) {
	var out []Grant
	for n, g := range m.userGrants[userID] {
		out = append(out, Grant{Permission: n, Granted: g})
	}
	return out, m.err
}

var _ = ginkgo.Describe("Resolver", func() {
	var (
		repo *memoryRepository
		ctx  context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMemoryRepository()
		repo.users[1] = RoleSalesRep
		repo.users[2] = RoleSalesRep
		repo.roleGrants[RoleSalesRep] = map[Name]bool{
			CustomersRead: true,
			DealsRead:     true,
			DealsDelete:   false,
		}
	})

	ginkgo.Describe("ResolveEffectivePermissions", func() {
		var resolver *Resolver

		ginkgo.BeforeEach(func() {
			resolver = NewResolver(repo, 0, logger.Discard())
		})

		ginkgo.It("should return granted role permissions", func() {
			set, err := resolver.ResolveEffectivePermissions(ctx, 1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set.Names()).To(gomega.Equal([]Name{CustomersRead, DealsRead}))
		})

		ginkgo.It("should add user grants on top of the role", func() {
			repo.userGrants[1] = map[Name]bool{ReportsRead: true}

			set, err := resolver.ResolveEffectivePermissions(ctx, 1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set.Has(ReportsRead)).To(gomega.BeTrue())
			gomega.Expect(set.Has(CustomersRead)).To(gomega.BeTrue())
		})

		ginkgo.It("should not let a user revoke subtract a role grant", func() {
			repo.userGrants[1] = map[Name]bool{CustomersRead: false}

			set, err := resolver.ResolveEffectivePermissions(ctx, 1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set.Has(CustomersRead)).To(gomega.BeTrue())
		})

		ginkgo.It("should keep user grants private to that user", func() {
			repo.userGrants[1] = map[Name]bool{ReportsRead: true}

			set, err := resolver.ResolveEffectivePermissions(ctx, 2)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set.Has(ReportsRead)).To(gomega.BeFalse())
		})

		ginkgo.It("should return an empty set for an unknown user", func() {
			set, err := resolver.ResolveEffectivePermissions(ctx, 404)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set).To(gomega.BeEmpty())
		})

		ginkgo.It("should drop stored names outside the catalog", func() {
			repo.extraRole[RoleSalesRep] = []string{"business_units:read", "customers:export"}

			set, err := resolver.ResolveEffectivePermissions(ctx, 1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set).To(gomega.HaveLen(2))
		})

		ginkgo.It("should surface store failures instead of an empty set", func() {
			repo.err = errors.New("connection refused")

			set, err := resolver.ResolveEffectivePermissions(ctx, 1)

			gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("connection refused")))
			gomega.Expect(set).To(gomega.BeNil())
		})

		ginkgo.It("should see a toggle on the next call without caching", func() {
			_, err := resolver.ResolveEffectivePermissions(ctx, 1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			repo.roleGrants[RoleSalesRep][DealsRead] = false

			set, err := resolver.ResolveEffectivePermissions(ctx, 1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set.Has(DealsRead)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("with caching", func() {
		var (
			resolver *Resolver
			bus      *events.EventBus
		)

		ginkgo.BeforeEach(func() {
			resolver = NewResolver(repo, time.Minute, logger.Discard())
			bus = events.NewEventBus(logger.Discard())
			resolver.Subscribe(bus)
		})

		ginkgo.It("should serve repeated calls from the cache", func() {
			_, err := resolver.ResolveEffectivePermissions(ctx, 1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			reads := repo.reads

			_, err = resolver.ResolveEffectivePermissions(ctx, 1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.reads).To(gomega.Equal(reads))
		})

		ginkgo.It("should hand out copies the caller may mutate", func() {
			set, err := resolver.ResolveEffectivePermissions(ctx, 1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			set.Add(PermissionsWrite)

			again, err := resolver.ResolveEffectivePermissions(ctx, 1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(again.Has(PermissionsWrite)).To(gomega.BeFalse())
		})

		ginkgo.It("should drop every entry on a role grant change", func() {
			_, _ = resolver.ResolveEffectivePermissions(ctx, 1)
			_, _ = resolver.ResolveEffectivePermissions(ctx, 2)
			repo.roleGrants[RoleSalesRep][DealsRead] = false

			gomega.Expect(bus.PublishSync(ctx, events.NewRoleGrantChangedEvent(string(RoleSalesRep), string(DealsRead), false))).To(gomega.Succeed())

			for _, id := range []int64{1, 2} {
				set, err := resolver.ResolveEffectivePermissions(ctx, id)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(set.Has(DealsRead)).To(gomega.BeFalse())
			}
		})

		ginkgo.It("should drop only the affected user on a user grant change", func() {
			_, _ = resolver.ResolveEffectivePermissions(ctx, 1)
			_, _ = resolver.ResolveEffectivePermissions(ctx, 2)
			repo.userGrants[1] = map[Name]bool{ReportsRead: true}
			repo.userGrants[2] = map[Name]bool{ReportsRead: true}

			gomega.Expect(bus.PublishSync(ctx, events.NewUserGrantChangedEvent(1, string(ReportsRead), true, nil))).To(gomega.Succeed())

			one, _ := resolver.ResolveEffectivePermissions(ctx, 1)
			two, _ := resolver.ResolveEffectivePermissions(ctx, 2)
			gomega.Expect(one.Has(ReportsRead)).To(gomega.BeTrue())
			gomega.Expect(two.Has(ReportsRead)).To(gomega.BeFalse())
		})
	})
})
