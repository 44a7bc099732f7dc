package intel

import (
	"regexp"
	"strings"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/pkg/logger"
)

// Extractor pulls actionable fraud intelligence out of raw message text.
// Extraction is two-stage: a broad regex match followed by validation,
// so that emails don't become UPI IDs and phone numbers don't become
// bank accounts.
type Extractor struct {
	logger *logger.Logger

	upiPattern     *regexp.Regexp
	accountPattern *regexp.Regexp
	ifscPattern    *regexp.Regexp
	urlPattern     *regexp.Regexp
	phoneLocal     *regexp.Regexp
}

// Known UPI handle suffixes issued by Indian banks and payment apps
var upiSuffixes = map[string]bool{
	"ybl": true, "okhdfcbank": true, "okaxis": true, "oksbi": true,
	"okicici": true, "paytm": true, "upi": true, "gpay": true,
	"ibl": true, "axl": true, "sbi": true, "icici": true,
	"hdfc": true, "axis": true, "kotak": true, "bob": true,
	"pnb": true, "canara": true, "union": true, "indian": true,
	"idbi": true, "rbl": true, "yes": true, "federal": true,
	"indus": true, "dbs": true, "citi": true, "hsbc": true,
	"sc": true, "apl": true, "pingpay": true, "freecharge": true,
	"airtel": true, "jio": true, "waaxis": true, "wahdfcbank": true,
	"wasbi": true, "waicici": true,
}

// Email providers whose addresses must never be mistaken for UPI IDs
var emailSuffixes = map[string]bool{
	"gmail": true, "yahoo": true, "hotmail": true, "outlook": true,
	"mail": true, "email": true, "protonmail": true, "live": true,
	"msn": true, "aol": true, "icloud": true, "rediffmail": true,
}

// Keywords that must appear near a digit run for it to count as a bank account
var bankContextKeywords = []string{
	"account", "a/c", "bank", "transfer", "send", "money", "deposit",
	"credit", "debit", "neft", "rtgs", "imps", "ifsc", "branch",
	"savings", "current",
}

// TLDs disproportionately used by phishing campaigns
var suspiciousTLDs = []string{
	".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".click",
	".online", ".site", ".win", ".vip",
}

// URL shorteners that hide phishing destinations
var urlShorteners = []string{
	"bit.ly", "tinyurl", "goo.gl", "t.co", "ow.ly", "is.gd", "buff.ly",
}

// Scam-bait keywords inside a URL
var suspiciousURLKeywords = []string{
	"verify", "secure", "update", "confirm", "login", "bank", "account",
	"claim", "prize", "winner", "kyc", "suspend", "block", "urgent",
	"reward", "lottery", "lucky", "bonus", "offer", "free",
}

// Domains that are never flagged regardless of path keywords
var legitimateDomains = []string{
	"google.com", "facebook.com", "amazon.in", "flipkart.com",
	"paytm.com", "phonepe.com", "sbi.co.in", "hdfcbank.com",
	"icicibank.com", "axisbank.com", "npci.org.in", "rbi.org.in",
}

// bankContextWindow is how far around a digit run we look for banking keywords
const bankContextWindow = 100

// NewExtractor creates a new Extractor
func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{
		logger:         log.WithComponent("intel-extractor"),
		upiPattern:     regexp.MustCompile(`(?i)[\w.\-]+@[a-zA-Z]+`),
		accountPattern: regexp.MustCompile(`\b\d{9,18}\b`),
		ifscPattern:    regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`),
		urlPattern:     regexp.MustCompile(`(?i)(?:https?://|www\.)[^\s<>"']+|[a-z0-9][a-z0-9\-]*\.(?:tk|ml|ga|cf|gq|xyz|top|click|online|site|win|vip)(?:/[^\s<>"']*)?`),
		phoneLocal:     regexp.MustCompile(`^\d{10}$`),
	}
}

// ExtractAll runs every extractor over the text. Never fails: arbitrary
// input yields zero or more entities.
func (e *Extractor) ExtractAll(text string) []models.Entity {
	if text == "" {
		return nil
	}

	var entities []models.Entity
	entities = append(entities, e.ExtractUPIIDs(text)...)
	entities = append(entities, e.ExtractBankAccounts(text)...)
	entities = append(entities, e.ExtractIFSCCodes(text)...)
	entities = append(entities, e.ExtractPhishingLinks(text)...)

	if len(entities) > 0 {
		e.logger.Debug().Int("count", len(entities)).Msg("extracted entities")
	}

	return entities
}

// ExtractUPIIDs finds UPI payment handles in text
func (e *Extractor) ExtractUPIIDs(text string) []models.Entity {
	var results []models.Entity
	seen := make(map[string]bool)

	for _, match := range e.upiPattern.FindAllString(text, -1) {
		candidate := strings.ToLower(match)
		if seen[candidate] {
			continue
		}

		at := strings.LastIndex(candidate, "@")
		if at <= 0 || at == len(candidate)-1 {
			continue
		}
		local, suffix := candidate[:at], candidate[at+1:]

		if emailSuffixes[suffix] {
			continue
		}
		if !e.isUPISuffix(suffix) && !e.phoneLocal.MatchString(local) {
			continue
		}

		seen[candidate] = true
		results = append(results, models.Entity{Kind: models.EntityUPIID, Value: candidate})
	}

	return results
}

func (e *Extractor) isUPISuffix(suffix string) bool {
	if upiSuffixes[suffix] {
		return true
	}
	return strings.Contains(suffix, "upi") || strings.Contains(suffix, "pay")
}

// ExtractBankAccounts finds bank account numbers. A digit run only counts
// when banking language appears near it, which keeps order numbers and
// phone numbers out of the results.
func (e *Extractor) ExtractBankAccounts(text string) []models.Entity {
	var results []models.Entity
	seen := make(map[string]bool)

	for _, loc := range e.accountPattern.FindAllStringIndex(text, -1) {
		candidate := text[loc[0]:loc[1]]
		if seen[candidate] {
			continue
		}

		// Indian mobile numbers are 10 digits starting 6-9
		if len(candidate) == 10 && candidate[0] >= '6' && candidate[0] <= '9' {
			continue
		}

		// Window bounds are byte offsets into text; lowercasing happens
		// on the window only, since ToLower can change byte length for
		// non-ASCII runes and would invalidate the offsets
		start := loc[0] - bankContextWindow
		if start < 0 {
			start = 0
		}
		end := loc[1] + bankContextWindow
		if end > len(text) {
			end = len(text)
		}
		if !hasBankContext(strings.ToLower(text[start:end])) {
			continue
		}

		seen[candidate] = true
		results = append(results, models.Entity{Kind: models.EntityBankAccount, Value: candidate})
	}

	return results
}

func hasBankContext(window string) bool {
	for _, kw := range bankContextKeywords {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}

// ExtractIFSCCodes finds Indian bank branch codes
func (e *Extractor) ExtractIFSCCodes(text string) []models.Entity {
	var results []models.Entity
	seen := make(map[string]bool)

	for _, match := range e.ifscPattern.FindAllString(strings.ToUpper(text), -1) {
		if seen[match] {
			continue
		}
		seen[match] = true
		results = append(results, models.Entity{Kind: models.EntityIFSCCode, Value: match})
	}

	return results
}

// ExtractPhishingLinks finds URLs that look like phishing infrastructure
func (e *Extractor) ExtractPhishingLinks(text string) []models.Entity {
	var results []models.Entity
	seen := make(map[string]bool)

	for _, match := range e.urlPattern.FindAllString(text, -1) {
		url := strings.TrimRight(match, ".,;:!?)\"'")
		key := strings.ToLower(url)
		if seen[key] {
			continue
		}
		if !e.isSuspiciousURL(key) {
			continue
		}

		seen[key] = true
		results = append(results, models.Entity{Kind: models.EntityPhishingLink, Value: url})
	}

	return results
}

func (e *Extractor) isSuspiciousURL(url string) bool {
	for _, domain := range legitimateDomains {
		if strings.Contains(url, domain) {
			return false
		}
	}

	for _, tld := range suspiciousTLDs {
		if strings.Contains(url, tld+"/") || strings.HasSuffix(url, tld) {
			return true
		}
	}
	for _, shortener := range urlShorteners {
		if strings.Contains(url, shortener) {
			return true
		}
	}
	for _, kw := range suspiciousURLKeywords {
		if strings.Contains(url, kw) {
			return true
		}
	}

	return false
}
