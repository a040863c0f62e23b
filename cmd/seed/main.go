package main

import (
	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/logger"
	"github.com/storeflow/storeflow/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	seedPricePlans()
	seedThemes()

	if err := models.InitDefaultLandlord("", ""); err != nil {
		stdLog.Printf("Failed to ensure landlord account: %v", err)
	}

	stdLog.Printf("Seed completed.")
}

func seedPricePlans() {
	stdLog := logger.StdLogger()

	plans := []models.PricePlan{
		{
			Code:         "starter",
			Name:         "Starter",
			MonthlyPrice: models.NewMoneyFromDecimal(decimal.Zero),
			Currency:     "USD",
			MaxProducts:  25,
			MaxStaff:     2,
			MaxStorageMB: 512,
			IsActive:     true,
			SortOrder:    1,
		},
		{
			Code:         "growth",
			Name:         "Growth",
			MonthlyPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(29.00)),
			Currency:     "USD",
			MaxProducts:  500,
			MaxStaff:     10,
			MaxStorageMB: 10240,
			IsActive:     true,
			SortOrder:    2,
		},
		{
			Code:         "scale",
			Name:         "Scale",
			MonthlyPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(99.00)),
			Currency:     "USD",
			MaxProducts:  0,
			MaxStaff:     0,
			MaxStorageMB: 0,
			IsActive:     true,
			SortOrder:    3,
		},
	}

	for _, plan := range plans {
		var existing models.PricePlan
		if err := models.DB.Where("code = ?", plan.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&plan).Error; err != nil {
				stdLog.Printf("Failed to create plan %s: %v", plan.Code, err)
			} else {
				stdLog.Printf("Created plan: %s", plan.Code)
			}
		} else {
			stdLog.Printf("Plan already exists: %s", plan.Code)
		}
	}
}

func seedThemes() {
	stdLog := logger.StdLogger()

	themes := []models.Theme{
		{
			Code:     constants.ThemeCodeClassic,
			Name:     "Classic",
			Template: "classic",
			DefaultsJSON: models.JSON(map[string]interface{}{
				"colors": map[string]interface{}{
					"primary":    "#1f2937",
					"accent":     "#2563eb",
					"background": "#ffffff",
				},
				"fonts": map[string]interface{}{
					"heading": "Georgia, serif",
					"body":    "Helvetica, Arial, sans-serif",
				},
				"layout": map[string]interface{}{
					"products_per_row": 4,
					"show_breadcrumbs": true,
				},
				"custom_css": "",
				"custom_js":  "",
			}),
			IsActive:  true,
			SortOrder: 1,
		},
		{
			Code:     constants.ThemeCodeMinimal,
			Name:     "Minimal",
			Template: "minimal",
			DefaultsJSON: models.JSON(map[string]interface{}{
				"colors": map[string]interface{}{
					"primary":    "#111111",
					"accent":     "#111111",
					"background": "#fafafa",
				},
				"fonts": map[string]interface{}{
					"heading": "Inter, sans-serif",
					"body":    "Inter, sans-serif",
				},
				"layout": map[string]interface{}{
					"products_per_row": 3,
					"show_breadcrumbs": false,
				},
				"custom_css": "",
				"custom_js":  "",
			}),
			IsActive:  true,
			SortOrder: 2,
		},
		{
			Code:     constants.ThemeCodeBoutique,
			Name:     "Boutique",
			Template: "boutique",
			DefaultsJSON: models.JSON(map[string]interface{}{
				"colors": map[string]interface{}{
					"primary":    "#7c2d4f",
					"accent":     "#d4a24e",
					"background": "#fdf8f3",
				},
				"fonts": map[string]interface{}{
					"heading": "Playfair Display, serif",
					"body":    "Lato, sans-serif",
				},
				"layout": map[string]interface{}{
					"products_per_row": 2,
					"show_breadcrumbs": true,
				},
				"custom_css": "",
				"custom_js":  "",
			}),
			IsActive:  true,
			SortOrder: 3,
		},
	}

	for _, theme := range themes {
		var existing models.Theme
		if err := models.DB.Where("code = ?", theme.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&theme).Error; err != nil {
				stdLog.Printf("Failed to create theme %s: %v", theme.Code, err)
			} else {
				stdLog.Printf("Created theme: %s", theme.Code)
			}
		} else {
			stdLog.Printf("Theme already exists: %s", theme.Code)
		}
	}
}
