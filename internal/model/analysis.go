package model

// CampaignMetrics are the headline numbers of an ad campaign
type CampaignMetrics struct {
	ROAS        float64 `json:"roas"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
}

// Insight is one categorized observation (positive, negative or neutral)
type Insight struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// CampaignReport is the structured result of a campaign analysis
type CampaignReport struct {
	Platform  string          `json:"platform,omitempty"`
	Metrics   CampaignMetrics `json:"metrics"`
	Insights  []Insight       `json:"insights"`
	NextSteps []string        `json:"next_steps"`
}

// PerformanceScores rate the technical health of a storefront, 0-100
type PerformanceScores struct {
	LoadSpeed  float64 `json:"load_speed"`
	MobileResp float64 `json:"mobile_resp"`
	CodeHealth float64 `json:"code_health"`
}

// SEOScores rate search visibility, 0-100
type SEOScores struct {
	MetaTags  float64 `json:"meta_tags"`
	Indexing  float64 `json:"indexing"`
	Backlinks float64 `json:"backlinks"`
}

// UXScores rate the shopping experience, 0-100
type UXScores struct {
	Navigation     float64 `json:"navigation"`
	ContentQuality float64 `json:"content_quality"`
}

// Recommendation is one suggested storefront fix
type Recommendation struct {
	Title    string `json:"title"`
	Impact   string `json:"impact"`
	Category string `json:"category"`
}

// AuditReport is the structured result of a store audit
type AuditReport struct {
	URL             string            `json:"url,omitempty"`
	Performance     PerformanceScores `json:"performance"`
	SEO             SEOScores         `json:"seo"`
	UX              UXScores          `json:"ux"`
	Recommendations []Recommendation  `json:"recommendations"`
}
