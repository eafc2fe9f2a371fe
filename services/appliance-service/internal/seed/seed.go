// Package seed inserts the sample household used by demos and local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/appliance-service/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SampleUserID owns every seeded row
var SampleUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

// Run seeds the database unless it already holds appliances
func Run(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	db = db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Appliance{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count appliances: %w", err)
	}
	if count > 0 {
		log.Info("Database already contains data. Skipping seed.")
		return nil
	}

	log.Info("Seeding initial data...")
	if err := db.Transaction(func(tx *gorm.DB) error {
		return insert(tx)
	}); err != nil {
		log.Error("An error occurred while seeding the database", zap.Error(err))
		return err
	}
	log.Info("Initial data seeded successfully")
	return nil
}

func insert(tx *gorm.DB) error {
	kitchen := model.Room{ID: uuid.MustParse("99999999-aaaa-aaaa-aaaa-aaaaaaaaaaaa"), UserID: SampleUserID, Name: "Kitchen"}
	laundry := model.Room{ID: uuid.MustParse("99999999-bbbb-bbbb-bbbb-bbbbbbbbbbbb"), UserID: SampleUserID, Name: "Laundry"}
	if err := tx.Create([]*model.Room{&kitchen, &laundry}).Error; err != nil {
		return err
	}

	appliances := []*model.Appliance{
		{
			ID:            uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			UserID:        SampleUserID,
			RoomID:        &kitchen.ID,
			Name:          "Samsung French Door Refrigerator",
			ApplianceType: "Refrigerator",
			Brand:         "Samsung",
			ModelNumber:   "RF28R7351SR",
			SerialNumber:  "ABC123456789",
			PurchaseDate:  date(2023, time.May, 15),
			PurchasePrice: price(2499.99),
		},
		{
			ID:            uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"),
			UserID:        SampleUserID,
			RoomID:        &kitchen.ID,
			Name:          "GE Gas Range",
			ApplianceType: "Oven",
			Brand:         "GE",
			ModelNumber:   "JGB735SPSS",
			SerialNumber:  "XYZ987654321",
			PurchaseDate:  date(2022, time.March, 20),
			PurchasePrice: price(1299.99),
		},
		{
			ID:            uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc"),
			UserID:        SampleUserID,
			RoomID:        &kitchen.ID,
			Name:          "Bosch Dishwasher",
			ApplianceType: "Dishwasher",
			Brand:         "Bosch",
			ModelNumber:   "SHPM65W55N",
			SerialNumber:  "DEF555666777",
			PurchaseDate:  date(2023, time.August, 10),
			PurchasePrice: price(899.99),
		},
		{
			ID:            uuid.MustParse("dddddddd-dddd-dddd-dddd-dddddddddddd"),
			UserID:        SampleUserID,
			RoomID:        &laundry.ID,
			Name:          "LG Front Load Washer",
			ApplianceType: "WasherDryer",
			Brand:         "LG",
			ModelNumber:   "WM3900HWA",
			SerialNumber:  "GHI111222333",
			PurchaseDate:  date(2024, time.January, 5),
			PurchasePrice: price(1099.99),
		},
	}
	if err := tx.Omit("Room", "Warranties", "Manuals", "ServiceRecords").Create(appliances).Error; err != nil {
		return err
	}

	warranties := []*model.Warranty{
		{
			ID:              uuid.MustParse("11111111-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			ApplianceID:     appliances[0].ID,
			Provider:        "Samsung",
			StartDate:       appliances[0].PurchaseDate,
			EndDate:         addYear(appliances[0].PurchaseDate),
			CoverageDetails: "1 year manufacturer warranty covering parts and labor",
			DocumentURL:     "https://example.com/samsung-warranty.pdf",
		},
		{
			ID:              uuid.MustParse("22222222-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			ApplianceID:     appliances[1].ID,
			Provider:        "GE Appliances",
			StartDate:       appliances[1].PurchaseDate,
			EndDate:         addYear(appliances[1].PurchaseDate),
			CoverageDetails: "1 year limited warranty on parts and labor",
			DocumentURL:     "https://example.com/ge-warranty.pdf",
		},
	}
	if err := tx.Create(warranties).Error; err != nil {
		return err
	}

	manuals := []*model.Manual{
		{
			ID:          uuid.MustParse("33333333-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			ApplianceID: appliances[0].ID,
			Title:       "Samsung RF28R7351SR User Manual",
			FileURL:     "https://example.com/samsung-rf28r7351sr-manual.pdf",
			FileType:    "PDF",
		},
		{
			ID:          uuid.MustParse("44444444-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			ApplianceID: appliances[2].ID,
			Title:       "Bosch SHPM65W55N Installation Guide",
			FileURL:     "https://example.com/bosch-dishwasher-install.pdf",
			FileType:    "PDF",
		},
	}
	if err := tx.Create(manuals).Error; err != nil {
		return err
	}

	record := model.ServiceRecord{
		ID:              uuid.MustParse("55555555-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
		ApplianceID:     appliances[1].ID,
		ServiceDate:     *date(2024, time.June, 15),
		ServiceProvider: "ABC Appliance Repair",
		Description:     "Replaced igniter on gas range",
		Cost:            price(175.00),
	}
	return tx.Omit("Warranty").Create(&record).Error
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func addYear(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := t.AddDate(1, 0, 0)
	return &end
}

func price(v float64) *float64 {
	return &v
}
