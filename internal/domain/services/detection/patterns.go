package detection

import "honeytrap-lab/internal/domain/models"

// scamKeywords are generic indicators counted across the whole conversation
var scamKeywords = []string{
	"prize", "winner", "lottery", "won", "congratulations", "claim",
	"urgent", "immediately", "verify", "kyc", "suspend", "blocked",
	"account", "update", "otp", "password", "pin", "cvv",
	"bank", "transfer", "payment", "upi", "send money",
	"reward", "bonus", "offer", "free", "gift",
	"click here", "link", "verify now", "act now",
	"limited time", "expire", "deadline",
	"government", "rbi", "income tax", "refund",
	"loan", "credit", "approved", "eligible",
	"job", "work from home", "earn money", "investment",
}

// highConfidenceKeywords are phrases that almost never appear in
// legitimate conversation; a single hit marks the conversation as a scam
var highConfidenceKeywords = []string{
	"lottery", "won prize", "claim prize", "congratulations you won",
	"send money", "pay fee", "processing fee", "advance payment",
	"kyc blocked", "account suspended", "account suspension", "verify immediately",
	"click here to claim", "limited time offer", "will be blocked",
	"share your upi", "share upi", "avoid suspension", "blocked today",
	"verify now", "account will be", "bank account blocked",
}

// typePattern routes a scam-positive conversation to a scam type.
// Patterns are checked in order; the first with any keyword hit wins.
type typePattern struct {
	Type     models.ScamType
	Keywords []string
}

var typePatterns = []typePattern{
	{models.ScamTypeLottery, []string{"prize", "lottery", "winner", "won"}},
	{models.ScamTypeKYC, []string{"kyc", "verify", "blocked", "suspended"}},
	{models.ScamTypeImpersonation, []string{"rbi", "government", "income tax", "officer", "police"}},
	{models.ScamTypeFinancial, []string{"bank", "transfer", "upi", "payment"}},
	{models.ScamTypePhishing, []string{"click here", "link", "login"}},
	{models.ScamTypeJobInvestment, []string{"job", "work from home", "investment", "earn money"}},
}
