package permission

import (
	"context"
	"errors"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/core/events"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type capturePublisher struct {
	published []events.Event
	err       error
}

func (c *capturePublisher) PublishSync(_ context.Context, e events.Event) error {
	c.published = append(c.published, e)
	return c.err
}

var _ = ginkgo.Describe("PermissionService", func() {
	var (
		repo      *memoryRepository
		publisher *capturePublisher
		service   *Service
		ctx       context.Context
		root      Actor
		admin     Actor
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMemoryRepository()
		repo.users[5] = RoleSupport
		publisher = &capturePublisher{}
		service = NewService(repo, publisher, logger.Discard())
		root = Actor{UserID: 1, Role: RoleSystemAdmin, Permissions: NewSet(All()...)}
		admin = Actor{UserID: 2, Role: RoleTenantAdmin, Permissions: NewSet(ReportsRead, PermissionsRead, PermissionsWrite)}
	})

	ginkgo.Describe("SetRoleGrant", func() {
		ginkgo.It("should store the grant and announce it", func() {
			// When
			err := service.SetRoleGrant(ctx, root, "SUPPORT", "reports:read", true)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.roleGrants[RoleSupport][ReportsRead]).To(gomega.BeTrue())
			gomega.Expect(publisher.published).To(gomega.HaveLen(1))
			changed, ok := publisher.published[0].(*events.RoleGrantChangedEvent)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(changed.Role).To(gomega.Equal("SUPPORT"))
			gomega.Expect(changed.Granted).To(gomega.BeTrue())
		})

		ginkgo.It("should keep a revoked row instead of deleting it", func() {
			gomega.Expect(service.SetRoleGrant(ctx, root, "SUPPORT", "reports:read", true)).To(gomega.Succeed())
			gomega.Expect(service.SetRoleGrant(ctx, root, "SUPPORT", "reports:read", false)).To(gomega.Succeed())

			grants, err := service.RoleGrants(ctx, "SUPPORT")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(grants).To(gomega.ConsistOf(Grant{Permission: ReportsRead, Granted: false}))
		})

		ginkgo.It("should refuse a tenant admin", func() {
			err := service.SetRoleGrant(ctx, admin, "TENANT_ADMIN", "tenants:write", true)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInsufficientPermissions))
			gomega.Expect(repo.roleGrants[RoleTenantAdmin]).ToNot(gomega.HaveKey(TenantsWrite))
			gomega.Expect(publisher.published).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject an unknown role", func() {
			err := service.SetRoleGrant(ctx, root, "INTERN", "reports:read", true)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUnknownRole))
			gomega.Expect(publisher.published).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject a name outside the catalog", func() {
			err := service.SetRoleGrant(ctx, root, "SUPPORT", "business_units:read", true)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUnknownPermission))
		})

		ginkgo.It("should report a failing store as infrastructure failure", func() {
			repo.err = errors.New("disk full")

			err := service.SetRoleGrant(ctx, root, "SUPPORT", "reports:read", true)

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInfrastructureFailure))
			gomega.Expect(publisher.published).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("SetUserGrant", func() {
		ginkgo.It("should record who granted it", func() {
			// When
			err := service.SetUserGrant(ctx, root, 5, "reports:read", true)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.userGrants[5][ReportsRead]).To(gomega.BeTrue())
			gomega.Expect(*repo.grantedBy[5]).To(gomega.Equal(int64(1)))
			changed := publisher.published[0].(*events.UserGrantChangedEvent)
			gomega.Expect(changed.UserID).To(gomega.Equal(int64(5)))
		})

		ginkgo.It("should answer not found for an unknown user", func() {
			err := service.SetUserGrant(ctx, root, 77, "reports:read", true)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrResourceNotFound))
		})

		ginkgo.It("should surface a failed notification", func() {
			publisher.err = errors.New("handler failed")

			err := service.SetUserGrant(ctx, root, 5, "reports:read", true)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.userGrants[5][ReportsRead]).To(gomega.BeTrue())
		})

		ginkgo.It("should let an admin pass on a permission it holds", func() {
			err := service.SetUserGrant(ctx, admin, 5, "reports:read", true)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*repo.grantedBy[5]).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("should refuse to grant a permission the actor lacks", func() {
			err := service.SetUserGrant(ctx, admin, 5, "tenants:write", true)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInsufficientPermissions))
			appErr, _ := internal.IsAppError(err)
			gomega.Expect(appErr.Details).To(gomega.HaveKeyWithValue("required_permission", "tenants:write"))
			gomega.Expect(repo.userGrants[5]).ToNot(gomega.HaveKey(TenantsWrite))
			gomega.Expect(publisher.published).To(gomega.BeEmpty())
		})

		ginkgo.It("should still let the actor revoke a permission it lacks", func() {
			err := service.SetUserGrant(ctx, admin, 5, "tenants:write", false)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.userGrants[5]).To(gomega.HaveKeyWithValue(TenantsWrite, false))
		})

		ginkgo.It("should refuse a change to the actor's own grants", func() {
			repo.users[2] = RoleTenantAdmin

			err := service.SetUserGrant(ctx, admin, 2, "reports:read", true)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInsufficientPermissions))
			gomega.Expect(repo.userGrants[2]).To(gomega.BeEmpty())
		})

		ginkgo.It("should leave granted_by empty for the command line", func() {
			gomega.Expect(service.SetUserGrant(ctx, SystemActor(), 5, "reports:read", true)).To(gomega.Succeed())
			gomega.Expect(repo.grantedBy[5]).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("SeedDefaults", func() {
		ginkgo.It("should seed every default grant once", func() {
			created, err := service.SeedDefaults(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.defs).To(gomega.HaveLen(len(All())))

			total := 0
			for _, names := range DefaultRolePermissions() {
				total += len(names)
			}
			gomega.Expect(created).To(gomega.Equal(total))

			again, err := service.SeedDefaults(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(again).To(gomega.BeZero())
		})

		ginkgo.It("should leave an explicit revoke in place", func() {
			_, err := service.SeedDefaults(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(service.SetRoleGrant(ctx, root, "SALES_REP", "deals:write", false)).To(gomega.Succeed())

			_, err = service.SeedDefaults(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.roleGrants[RoleSalesRep][DealsWrite]).To(gomega.BeFalse())
		})
	})
})
