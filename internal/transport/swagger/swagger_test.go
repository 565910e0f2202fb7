package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/tenant-crm/internal/transport/swagger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("should be a valid document", func() {
		doc, err := swagger.Load(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Info.Title).To(Equal("Tenant CRM API"))
	})

	It("should describe the guarded resource routes", func() {
		doc, err := swagger.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		for _, path := range []string{"/accounts/{id}", "/customers/{id}", "/roles/{role}/permissions/{permission}"} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), path)
		}
	})

	It("should serve the raw document", func() {
		rec := httptest.NewRecorder()
		swagger.SpecHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, swagger.SpecPath, nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("openapi: 3.0.3"))
	})
})
