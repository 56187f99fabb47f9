package setu

import (
	"strings"

	"financial-guardian/api/models"
)

// Keyword buckets checked in order against the transaction narration.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Food & Dining", []string{"zomato", "swiggy", "restaurant", "cafe", "starbucks", "dominos", "mcdonald"}},
	{"Groceries", []string{"bigbasket", "dmart", "zepto", "blinkit", "grocery", "supermarket"}},
	{"Commute", []string{"uber", "ola", "rapido", "metro", "irctc", "fuel", "petrol"}},
	{"Travel", []string{"makemytrip", "goibibo", "airlines", "indigo", "flight", "hotel", "oyo"}},
	{"Shopping", []string{"amazon", "flipkart", "myntra", "croma", "ajio"}},
	{"Entertainment", []string{"netflix", "spotify", "hotstar", "bookmyshow", "pvr", "prime video"}},
	{"Health", []string{"pharmacy", "apollo", "hospital", "clinic", "1mg", "practo"}},
	{"Utilities", []string{"electricity", "broadband", "wifi", "airtel", "jio", "vodafone", "gas bill", "water bill"}},
	{"Rent", []string{"rent", "landlord", "nobroker"}},
	{"EMI", []string{"emi", "loan repayment", "nach", "ecs"}},
}

var incomeKeywords = []struct {
	category string
	keywords []string
}{
	{"Salary", []string{"salary", "payroll", "sal credit"}},
	{"Freelance", []string{"freelance", "upwork", "invoice"}},
	{"Interest", []string{"interest", "int.pd", "int credit"}},
	{"Refund", []string{"refund", "reversal", "cashback"}},
}

// Categorize infers a category from the narration text. Unmatched debits
// land in "Others", unmatched credits in "Other Income".
func Categorize(narration, txnType string) string {
	n := strings.ToLower(narration)

	if txnType == models.TxnTypeCredit {
		for _, bucket := range incomeKeywords {
			for _, kw := range bucket.keywords {
				if strings.Contains(n, kw) {
					return bucket.category
				}
			}
		}
		return "Other Income"
	}

	for _, bucket := range categoryKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(n, kw) {
				return bucket.category
			}
		}
	}
	return "Others"
}
