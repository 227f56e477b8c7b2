package handlers

import (
	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/fenilmodi00/shadowtrace-backend/services"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetCategories returns the searchable categories with their input hints
func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	type categoryResponse struct {
		models.CategoryInfo
		MinRiskScore int `json:"min_risk_score"`
		MaxRiskScore int `json:"max_risk_score"`
	}

	infos := models.AllCategoryInfos()
	categories := make([]categoryResponse, 0, len(infos))
	for _, info := range infos {
		minScore, maxScore, _ := services.ScoreRange(info.Value)
		categories = append(categories, categoryResponse{
			CategoryInfo: info,
			MinRiskScore: minScore,
			MaxRiskScore: maxScore,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

// GetRiskGauge classifies a score and returns the gauge parameters
func (h *CatalogHandler) GetRiskGauge(c *fiber.Ctx) error {
	score, err := c.ParamsInt("score")
	if err != nil || score < models.MinRiskScore || score > models.MaxRiskScore {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "score must be an integer between 0 and 100",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    services.NewRiskGauge(score),
	})
}
