package main

import (
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/crypto/bcrypt"

	"github.com/bidhall/auction-api/internal/config"
	"github.com/bidhall/auction-api/internal/database"
	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/pkg/logger"
)

// Seeds the schema plus a small sample data set: the reserved system user,
// an auctioneer with two listed items, active auctions for both and a few
// accepted bids.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Schema migrated")

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		logger.Info("Database already seeded, nothing to do", "users", count)
		return
	}

	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Password hashing failed", "error", err)
			os.Exit(1)
		}
		return string(h)
	}

	now := time.Now().UTC()

	// The system user must exist first so its ID matches SYSTEM_USER_ID.
	system := models.User{
		Username:          models.SystemUsername,
		Email:             "system@auction.local",
		EncryptedPassword: hash("disabled-login"),
		Role:              models.RoleAdmin,
	}
	auctioneer := models.User{
		Username:          "auctioneer1",
		Email:             "auctioneer1@example.com",
		EncryptedPassword: hash("password1"),
		Role:              models.RoleAuctioneer,
	}
	bidder := models.User{
		Username:          "bidder1",
		Email:             "bidder1@example.com",
		EncryptedPassword: hash("password2"),
		Role:              models.RoleBidder,
	}
	for _, u := range []*models.User{&system, &auctioneer, &bidder} {
		if err := db.Create(u).Error; err != nil {
			logger.Error("Failed to create user", "username", u.Username, "error", err)
			os.Exit(1)
		}
	}

	vase := models.Item{
		Title:         "Antique Vase",
		Description:   "An exquisite antique vase from the 19th century.",
		StartingPrice: 100.0,
		Category:      "Antiques",
		PostedByID:    auctioneer.ID,
		Images: []models.Image{
			{ImageURL: "vase1.jpg", Position: 0},
			{ImageURL: "vase2.jpg", Position: 1},
		},
	}
	clock := models.Item{
		Title:         "Vintage Clock",
		Description:   "A beautiful vintage clock with intricate details.",
		StartingPrice: 200.0,
		Category:      "Clocks",
		PostedByID:    auctioneer.ID,
		Images: []models.Image{
			{ImageURL: "clock1.jpg", Position: 0},
		},
	}
	for _, item := range []*models.Item{&vase, &clock} {
		if err := db.Create(item).Error; err != nil {
			logger.Error("Failed to create item", "title", item.Title, "error", err)
			os.Exit(1)
		}
	}

	openedAt := now
	vaseAuction := models.Auction{
		ItemID:    vase.ID,
		StartTime: now,
		EndTime:   now.Add(48 * time.Hour),
		Status:    models.AuctionStatusActive,
		OpenedAt:  &openedAt,
	}
	clockAuction := models.Auction{
		ItemID:    clock.ID,
		StartTime: now,
		EndTime:   now.Add(72 * time.Hour),
		Status:    models.AuctionStatusActive,
		OpenedAt:  &openedAt,
	}
	for _, a := range []*models.Auction{&vaseAuction, &clockAuction} {
		if err := db.Create(a).Error; err != nil {
			logger.Error("Failed to create auction", "item_id", a.ItemID, "error", err)
			os.Exit(1)
		}
	}

	seedBids := []struct {
		auction *models.Auction
		amount  float64
	}{
		{&vaseAuction, 120.0},
		{&vaseAuction, 130.0},
		{&clockAuction, 210.0},
	}
	for _, sb := range seedBids {
		bid := models.Bid{
			AuctionID:  sb.auction.ID,
			BidderID:   bidder.ID,
			Amount:     sb.amount,
			AcceptedAt: now,
		}
		if err := db.Create(&bid).Error; err != nil {
			logger.Error("Failed to create bid", "auction_id", sb.auction.ID, "error", err)
			os.Exit(1)
		}
		history := models.BidHistory{
			BidID:     bid.ID,
			AuctionID: sb.auction.ID,
			BidderID:  bidder.ID,
			Amount:    sb.amount,
			Timestamp: now,
		}
		if err := db.Create(&history).Error; err != nil {
			logger.Error("Failed to create bid history", "bid_id", bid.ID, "error", err)
			os.Exit(1)
		}

		sb.auction.CurrentHighBidID = &bid.ID
		sb.auction.CurrentHighBidAmount = &bid.Amount
		sb.auction.CurrentHighBidderID = &bid.BidderID
		if err := db.Omit("Item", "Bids").Save(sb.auction).Error; err != nil {
			logger.Error("Failed to update auction high bid", "auction_id", sb.auction.ID, "error", err)
			os.Exit(1)
		}
	}

	reports := []models.Report{
		{
			ReportType:      "Fraud",
			Details:         "Reported for suspicious bidding activity.",
			Status:          models.ReportStatusOpen,
			GeneratedByID:   bidder.ID,
			TargetAuctionID: &vaseAuction.ID,
		},
	}
	for i := range reports {
		if err := db.Create(&reports[i]).Error; err != nil {
			logger.Error("Failed to create report", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Sample data added successfully",
		"users", 3, "items", 2, "auctions", 2, "bids", len(seedBids))
}
