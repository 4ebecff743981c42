package pricing

// FeatureID is the canonical identifier for a priceable project feature.
type FeatureID string

const (
	FeaturePaymentProcessing FeatureID = "payment-processing"
	FeatureShoppingCart      FeatureID = "shopping-cart"
	FeatureUserAccounts      FeatureID = "user-accounts"
	FeatureRealTimeChat      FeatureID = "real-time-chat"
	FeatureAdminDashboard    FeatureID = "admin-dashboard"
	FeatureBooking           FeatureID = "booking-scheduling"
	FeatureCMS               FeatureID = "content-management"
	FeatureFileUploads       FeatureID = "file-uploads"
	FeatureSearch            FeatureID = "search"
	FeatureSocialLogin       FeatureID = "social-login"
	FeatureAPIIntegration    FeatureID = "api-integration"
	FeatureEmailAutomation   FeatureID = "email-automation"
	FeatureAnalytics         FeatureID = "analytics-dashboard"
	FeatureMultiLanguage     FeatureID = "multi-language"
	FeaturePushNotifications FeatureID = "push-notifications"

	// Surcharge identifiers that label multiplicative line items. They are
	// triggered by other answers (design tier, timeline, integration count)
	// rather than by feature selection.
	FeaturePremiumDesign     FeatureID = "premium-design"
	FeatureRushDelivery      FeatureID = "rush-delivery"
	FeatureIntegrationsHeavy FeatureID = "integrations-heavy"
)

// Feature describes one registry entry: the canonical label shown on line
// items plus the alternative spellings the wizard and older questionnaire
// versions have used for it.
type Feature struct {
	ID       FeatureID
	Label    string
	Synonyms []string
}

// featureRegistry is the single source of truth for feature identity.
// Order is stable and only matters for deterministic normalization; rule
// registration order (rules.go) controls line-item ordering.
var featureRegistry = []Feature{
	{ID: FeaturePaymentProcessing, Label: "Payment Processing", Synonyms: []string{"payments", "online payments", "stripe", "checkout"}},
	{ID: FeatureShoppingCart, Label: "Shopping Cart", Synonyms: []string{"cart", "webshop", "product catalog"}},
	{ID: FeatureUserAccounts, Label: "User Accounts", Synonyms: []string{"login", "registration", "authentication", "member area"}},
	{ID: FeatureRealTimeChat, Label: "Real-Time Chat", Synonyms: []string{"live chat", "messaging", "chat widget"}},
	{ID: FeatureAdminDashboard, Label: "Admin Dashboard", Synonyms: []string{"admin panel", "back office", "management console"}},
	{ID: FeatureBooking, Label: "Booking & Scheduling", Synonyms: []string{"appointments", "reservations", "calendar booking"}},
	{ID: FeatureCMS, Label: "Content Management", Synonyms: []string{"cms", "blog", "editable pages"}},
	{ID: FeatureFileUploads, Label: "File Uploads", Synonyms: []string{"uploads", "media library", "attachments"}},
	{ID: FeatureSearch, Label: "Search", Synonyms: []string{"site search", "full-text search", "filtering"}},
	{ID: FeatureSocialLogin, Label: "Social Login", Synonyms: []string{"oauth", "google login", "sign in with"}},
	{ID: FeatureAPIIntegration, Label: "API Integration", Synonyms: []string{"third-party api", "external services", "webhooks"}},
	{ID: FeatureEmailAutomation, Label: "Email Automation", Synonyms: []string{"transactional email", "drip campaigns", "email flows"}},
	{ID: FeatureAnalytics, Label: "Analytics Dashboard", Synonyms: []string{"reporting", "metrics", "statistics"}},
	{ID: FeatureMultiLanguage, Label: "Multi-Language", Synonyms: []string{"i18n", "translations", "localization"}},
	{ID: FeaturePushNotifications, Label: "Push Notifications", Synonyms: []string{"push", "mobile notifications", "alerts"}},

	{ID: FeaturePremiumDesign, Label: "Premium Design", Synonyms: []string{"custom design", "bespoke design"}},
	{ID: FeatureRushDelivery, Label: "Rush Delivery", Synonyms: []string{"expedited", "fast track"}},
	{ID: FeatureIntegrationsHeavy, Label: "Heavy Integrations", Synonyms: nil},
}

// labelFor returns the display label for a feature id, falling back to the
// raw id if it is somehow unregistered.
func labelFor(id FeatureID) string {
	for _, f := range featureRegistry {
		if f.ID == id {
			return f.Label
		}
	}
	return string(id)
}

func isRegistered(id FeatureID) bool {
	for _, f := range featureRegistry {
		if f.ID == id {
			return true
		}
	}
	return false
}
