package db

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"financial-guardian/api/models"
)

// SeedDemoUser populates the database with 90 days of realistic financial data
// for a single demo user. It is a no-op when the user already exists.
func SeedDemoUser() error {
	const phone = "9876543210"

	existing, err := GetUserID(phone)
	if err != nil {
		return err
	}
	if existing != 0 {
		return nil
	}

	userID, err := CreateUser(phone)
	if err != nil {
		return err
	}

	type catMeta struct {
		typ, color, icon string
	}
	categories := map[string]catMeta{
		"Salary":        {"income", "#10B981", "💰"},
		"Freelance":     {"income", "#34D399", "💻"},
		"Food & Dining": {"expense", "#EF4444", "🍔"},
		"Groceries":     {"expense", "#F87171", "🛒"},
		"Travel":        {"expense", "#3B82F6", "✈️"},
		"Commute":       {"expense", "#60A5FA", "🚕"},
		"Rent":          {"expense", "#8B5CF6", "🏠"},
		"Utilities":     {"expense", "#A78BFA", "💡"},
		"Shopping":      {"expense", "#EC4899", "🛍️"},
		"Entertainment": {"expense", "#F472B6", "🎬"},
		"Health":        {"expense", "#14B8A6", "🏥"},
	}

	catIDs := map[string]int64{}
	for name, meta := range categories {
		id, err := CreateCategory(userID, name, meta.typ, meta.color, meta.icon)
		if err != nil {
			return fmt.Errorf("seeding category %s: %w", name, err)
		}
		catIDs[name] = id
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now().AddDate(0, 0, -90)
	txns := []models.Transaction{}

	add := func(date time.Time, amount int, txnType, category, narration, mode string) {
		txns = append(txns, models.Transaction{
			Date:      date.Format("2006-01-02"),
			Type:      txnType,
			Amount:    decimal.NewFromInt(int64(amount)),
			Category:  category,
			Narration: narration,
			Mode:      mode,
			Source:    models.SourceSetu,
		})
	}

	// Recurring monthly items.
	for i := 0; i < 3; i++ {
		month := start.AddDate(0, 0, i*30)
		firstOfMonth := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)

		add(firstOfMonth, 85000, models.TxnTypeCredit, "Salary", "Monthly Salary - TechCorp", "NEFT")
		if i%2 == 0 {
			add(firstOfMonth.AddDate(0, 0, 14), 10000+rng.Intn(15000), models.TxnTypeCredit, "Freelance", "Freelance Project Payment", "UPI")
		}
		add(firstOfMonth.AddDate(0, 0, 4), 25000, models.TxnTypeDebit, "Rent", "Apartment Rent", "UPI")
		add(firstOfMonth.AddDate(0, 0, 9), 1500+rng.Intn(1500), models.TxnTypeDebit, "Utilities", "Electricity & WiFi Bill", "UPI")
	}

	// Random daily expenses.
	narrations := map[string][]string{
		"Food & Dining": {"Zomato Order", "Starbucks Coffee", "Lunch at Office Cafe", "Dinner with Friends", "Swiggy Delivery"},
		"Groceries":     {"BigBasket Order", "DMart Shopping", "Zepto Quick Commerce", "Nature's Basket"},
		"Commute":       {"Uber Ride", "Ola Auto", "Metro Card Recharge", "Rapido Bike"},
		"Shopping":      {"Amazon Purchase", "Flipkart Order", "Myntra Fashion", "Croma Electronics"},
		"Entertainment": {"Netflix Subscription", "Movie Tickets - PVR", "Spotify Premium", "Gaming Purchase"},
		"Health":        {"Apollo Pharmacy", "Doctor Consultation", "Gym Membership", "Health Checkup"},
	}
	ranges := map[string][2]int{
		"Food & Dining": {150, 1500},
		"Groceries":     {500, 4000},
		"Commute":       {50, 500},
		"Shopping":      {500, 8000},
		"Entertainment": {200, 1500},
		"Health":        {200, 3000},
	}
	expenseCats := []string{"Food & Dining", "Groceries", "Commute", "Shopping", "Entertainment", "Health"}
	modes := []string{"UPI", "Card", "UPI"}

	for i := 0; i < 80; i++ {
		cat := expenseCats[rng.Intn(len(expenseCats))]
		r := ranges[cat]
		ns := narrations[cat]
		add(start.AddDate(0, 0, rng.Intn(90)), r[0]+rng.Intn(r[1]-r[0]), models.TxnTypeDebit, cat, ns[rng.Intn(len(ns))], modes[rng.Intn(len(modes))])
	}

	// A few deliberately high transactions so anomaly detection has material.
	add(start.AddDate(0, 0, 20), 45000, models.TxnTypeDebit, "Shopping", "iPhone Purchase - Apple Store", "Card")
	add(start.AddDate(0, 0, 50), 35000, models.TxnTypeDebit, "Travel", "Flight Tickets - Goa Trip", "Card")
	add(start.AddDate(0, 0, 75), 12000, models.TxnTypeDebit, "Health", "Annual Health Checkup Package", "Card")

	if _, err := StoreTransactions(userID, txns); err != nil {
		return fmt.Errorf("seeding transactions: %w", err)
	}

	// Budgets for the current month.
	month := time.Now().Format("2006-01")
	budgets := map[string]int64{
		"Food & Dining": 8000,
		"Shopping":      5000,
		"Entertainment": 3000,
		"Commute":       2000,
	}
	for cat, limit := range budgets {
		if _, err := SaveBudget(userID, catIDs[cat], decimal.NewFromInt(limit), month); err != nil {
			return fmt.Errorf("seeding budget %s: %w", cat, err)
		}
	}

	// Goals.
	goals := []struct {
		name    string
		target  int64
		saved   int64
		dueDays int
	}{
		{"MacBook Pro", 200000, 45000, 180},
		{"Bali Trip", 100000, 15000, 365},
		{"Emergency Fund", 500000, 125000, 0},
	}
	for _, g := range goals {
		date := ""
		if g.dueDays > 0 {
			date = time.Now().AddDate(0, 0, g.dueDays).Format("2006-01-02")
		}
		goalID, err := SaveGoal(userID, g.name, decimal.NewFromInt(g.target), date)
		if err != nil {
			return fmt.Errorf("seeding goal %s: %w", g.name, err)
		}
		if _, err := AddGoalProgress(userID, goalID, decimal.NewFromInt(g.saved)); err != nil {
			return err
		}
	}

	// Liabilities.
	if _, err := CreateLoan(models.Loan{
		UserID:           userID,
		Name:             "HDFC Home Loan",
		LoanType:         "home",
		PrincipalAmount:  decimal.NewFromInt(4500000),
		RemainingBalance: decimal.NewFromInt(3800000),
		EMIAmount:        decimal.NewFromInt(35000),
		InterestRate:     8.5,
		NextDueDate:      time.Now().AddDate(0, 0, 15).Format("2006-01-02"),
	}); err != nil {
		return err
	}
	cards := []models.CreditCard{
		{UserID: userID, CardName: "Amex Platinum", CreditLimit: decimal.NewFromInt(500000), CurrentBalance: decimal.NewFromInt(28000), DueDate: time.Now().AddDate(0, 0, 5).Format("2006-01-02")},
		{UserID: userID, CardName: "HDFC Regalia", CreditLimit: decimal.NewFromInt(300000), CurrentBalance: decimal.NewFromInt(12000), DueDate: time.Now().AddDate(0, 0, 12).Format("2006-01-02")},
	}
	for _, cc := range cards {
		if _, err := CreateCreditCard(cc); err != nil {
			return err
		}
	}

	return nil
}
