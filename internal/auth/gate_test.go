package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/access"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

type stubEvaluator struct {
	decision access.Decision
	err      error
	calls    int
}

func (s *stubEvaluator) Evaluate(_ context.Context, _, _ int64, _ access.ResourceType) (access.Decision, error) {
	s.calls++
	return s.decision, s.err
}

type recordedDecision struct {
	stage, outcome string
}

type captureRecorder struct {
	mu   sync.Mutex
	seen []recordedDecision
}

func (c *captureRecorder) ObserveDecision(stage, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, recordedDecision{stage, outcome})
}

type errorEnvelope struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decodeCode(rec *httptest.ResponseRecorder) string {
	var env errorEnvelope
	gomega.Expect(json.NewDecoder(rec.Body).Decode(&env)).To(gomega.Succeed())
	return env.Error.Code
}

var _ = ginkgo.Describe("Gate", func() {
	var (
		router    chi.Router
		tokenGen  *JWTTokenGenerator
		evaluator *stubEvaluator
		recorder  *captureRecorder
		reached   bool
		conceal   bool
	)

	build := func() {
		lg := logger.Discard()
		repo := newMockUserRepository()
		resolver := &mockResolver{sets: map[int64]permission.Set{
			1: permission.NewSet(permission.CustomersRead),
			2: permission.NewSet(permission.All()...),
		}}
		svc := NewService(repo, tokenGen, resolver, bcrypt.MinCost)
		h := NewHandler(svc, lg, recorder)
		gate := NewGate(NewRBACAuthorization(lg, recorder), NewABACPolicy(evaluator, conceal, lg, recorder))

		router = chi.NewRouter()
		router.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			ok := func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			}
			r.With(gate.Protect(RequireOn(permission.CustomersRead, access.ResourceCustomer))).Get("/customers/{id}", ok)
			r.With(gate.Protect(RequireOn(permission.CustomersDelete, access.ResourceCustomer))).Delete("/customers/{id}", ok)
			r.With(gate.Protect(Require(permission.CustomersRead))).Get("/customers", ok)
		})
	}

	do := func(method, path, userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if userID != "" {
			token, err := tokenGen.GenerateAccessToken(userID, "rep@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator("gate-access", "gate-refresh", time.Minute, time.Hour)
		evaluator = &stubEvaluator{decision: access.Allowed}
		recorder = &captureRecorder{}
		reached = false
		conceal = true
		build()
	})

	ginkgo.Context("identity stage", func() {
		ginkgo.It("should answer 401 without a credential", func() {
			rec := do(http.MethodGet, "/customers/7", "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeCode(rec)).To(gomega.Equal(string(internal.ErrCodeAuthenticationRequired)))
			gomega.Expect(reached).To(gomega.BeFalse())
			gomega.Expect(evaluator.calls).To(gomega.BeZero())
		})

		ginkgo.It("should answer 401 for a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/customers", nil)
			req.Header.Set("Authorization", "Bearer not.a.token")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeCode(rec)).To(gomega.Equal(string(internal.ErrCodeInvalidCredential)))
		})

		ginkgo.It("should answer 403 ACCOUNT_INACTIVE for an inactive user", func() {
			rec := do(http.MethodGet, "/customers", "4")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeCode(rec)).To(gomega.Equal(string(internal.ErrCodeAccountInactive)))
		})

		ginkgo.It("should answer 401 for a deleted user", func() {
			rec := do(http.MethodGet, "/customers", "999")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Context("permission stage", func() {
		ginkgo.It("should admit a list route on permission alone", func() {
			rec := do(http.MethodGet, "/customers", "1")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(evaluator.calls).To(gomega.BeZero())
		})

		ginkgo.It("should deny before any resource lookup", func() {
			rec := do(http.MethodDelete, "/customers/7", "1")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeCode(rec)).To(gomega.Equal(string(internal.ErrCodeInsufficientPermissions)))
			gomega.Expect(evaluator.calls).To(gomega.BeZero())
			gomega.Expect(reached).To(gomega.BeFalse())
			gomega.Expect(recorder.seen).To(gomega.ContainElement(recordedDecision{StagePermission, string(internal.ErrCodeInsufficientPermissions)}))
		})
	})

	ginkgo.Context("resource stage", func() {
		ginkgo.It("should reach the handler when the row is in reach", func() {
			rec := do(http.MethodGet, "/customers/7", "1")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(reached).To(gomega.BeTrue())
			gomega.Expect(evaluator.calls).To(gomega.Equal(1))
		})

		ginkgo.It("should answer 403 RESOURCE_ACCESS_DENIED outside the role's reach", func() {
			evaluator.decision = access.DeniedScope

			rec := do(http.MethodGet, "/customers/7", "1")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeCode(rec)).To(gomega.Equal(string(internal.ErrCodeResourceAccessDenied)))
			gomega.Expect(reached).To(gomega.BeFalse())
		})

		ginkgo.It("should answer 404 for a missing row", func() {
			evaluator.decision = access.NotFound

			rec := do(http.MethodGet, "/customers/7", "1")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(decodeCode(rec)).To(gomega.Equal(string(internal.ErrCodeResourceNotFound)))
		})

		ginkgo.It("should answer 404 for a non numeric id without evaluating", func() {
			rec := do(http.MethodGet, "/customers/abc", "1")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(evaluator.calls).To(gomega.BeZero())
		})

		ginkgo.It("should conceal another tenant's row as not found", func() {
			evaluator.decision = access.DeniedTenant

			rec := do(http.MethodGet, "/customers/7", "1")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(decodeCode(rec)).To(gomega.Equal(string(internal.ErrCodeResourceNotFound)))
		})

		ginkgo.It("should report another tenant's row as denied when concealment is off", func() {
			conceal = false
			build()
			evaluator.decision = access.DeniedTenant

			rec := do(http.MethodGet, "/customers/7", "1")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeCode(rec)).To(gomega.Equal(string(internal.ErrCodeResourceAccessDenied)))
		})

		ginkgo.It("should let the super admin skip the resource stage", func() {
			evaluator.decision = access.DeniedTenant

			rec := do(http.MethodGet, "/customers/7", "2")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(evaluator.calls).To(gomega.BeZero())
		})

		ginkgo.It("should answer 500 when the decision cannot be made", func() {
			evaluator.err = errors.New("connection refused")

			rec := do(http.MethodGet, "/customers/7", "1")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
			gomega.Expect(decodeCode(rec)).To(gomega.Equal(string(internal.ErrCodeInfrastructureFailure)))
			gomega.Expect(reached).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("GrantActor", func() {
		ginkgo.It("should carry the signed-in user and its permissions", func() {
			tenant := int64(4)
			ctx := ContextWithPrincipal(context.Background(), &Principal{
				User:        &User{ID: 12, Role: permission.RoleTenantAdmin, TenantID: &tenant},
				Permissions: permission.NewSet(permission.PermissionsWrite),
			})

			actor, err := GrantActor(ctx)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(actor.UserID).To(gomega.Equal(int64(12)))
			gomega.Expect(actor.Role).To(gomega.Equal(permission.RoleTenantAdmin))
			gomega.Expect(actor.Permissions.Has(permission.PermissionsWrite)).To(gomega.BeTrue())
		})

		ginkgo.It("should require a principal", func() {
			_, err := GrantActor(context.Background())
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAuthenticationRequired))
		})
	})
})
