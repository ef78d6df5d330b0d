package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gofleetadvisor/invoicestack/interfaces"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/models"
	"github.com/gofleetadvisor/invoicestack/services/companies"
)

type upsertCompanyRequest struct {
	Name          string `json:"name" binding:"required"`
	AccountNumber string `json:"accountNumber"`
	Email         string `json:"email"`
}

// ListCompanies returns every canonical company key in the reference set.
func ListCompanies(log logger.Logger, repo interfaces.CompanyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		names, err := repo.ListNames(c.Request.Context())
		if err != nil {
			log.Errorf("Failed to list companies: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list companies"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"companies": names})
	}
}

// UpsertCompany stores one company under its canonical hyphenated key.
func UpsertCompany(log logger.Logger, repo interfaces.CompanyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request upsertCompanyRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		name := companies.NormalizeReferenceName(request.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name normalizes to empty"})
			return
		}

		company := &models.Company{
			Name:          name,
			AccountNumber: request.AccountNumber,
			Email:         request.Email,
		}
		if err := repo.Upsert(c.Request.Context(), company); err != nil {
			log.Errorf("Failed to upsert company %s: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store company"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"name": name})
	}
}
