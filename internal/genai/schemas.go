package genai

import googleai "google.golang.org/genai"

func object(props map[string]*googleai.Schema, required ...string) *googleai.Schema {
	return &googleai.Schema{Type: googleai.TypeObject, Properties: props, Required: required}
}

func number() *googleai.Schema { return &googleai.Schema{Type: googleai.TypeNumber} }

func str() *googleai.Schema { return &googleai.Schema{Type: googleai.TypeString} }

func score() *googleai.Schema {
	lo, hi := 0.0, 100.0
	return &googleai.Schema{Type: googleai.TypeNumber, Minimum: &lo, Maximum: &hi}
}

func enum(values ...string) *googleai.Schema {
	return &googleai.Schema{Type: googleai.TypeString, Enum: values}
}

func array(items *googleai.Schema) *googleai.Schema {
	return &googleai.Schema{Type: googleai.TypeArray, Items: items}
}

// CampaignReportSchema describes metrics, categorized insights and next steps
func CampaignReportSchema() *googleai.Schema {
	return object(map[string]*googleai.Schema{
		"metrics": object(map[string]*googleai.Schema{
			"roas":        number(),
			"ctr":         number(),
			"cpc":         number(),
			"spend":       number(),
			"conversions": number(),
		}, "roas", "ctr", "cpc", "spend", "conversions"),
		"insights": array(object(map[string]*googleai.Schema{
			"text": str(),
			"type": enum("positive", "negative", "neutral"),
		}, "text", "type")),
		"next_steps": array(str()),
	}, "metrics", "insights", "next_steps")
}

// StoreAuditSchema describes 0-100 scores per area and a recommendation list
func StoreAuditSchema() *googleai.Schema {
	return object(map[string]*googleai.Schema{
		"performance": object(map[string]*googleai.Schema{
			"load_speed":  score(),
			"mobile_resp": score(),
			"code_health": score(),
		}, "load_speed", "mobile_resp", "code_health"),
		"seo": object(map[string]*googleai.Schema{
			"meta_tags": score(),
			"indexing":  score(),
			"backlinks": score(),
		}, "meta_tags", "indexing", "backlinks"),
		"ux": object(map[string]*googleai.Schema{
			"navigation":      score(),
			"content_quality": score(),
		}, "navigation", "content_quality"),
		"recommendations": array(object(map[string]*googleai.Schema{
			"title":    str(),
			"impact":   enum("high", "medium", "low"),
			"category": str(),
		}, "title", "impact", "category")),
	}, "performance", "seo", "ux", "recommendations")
}
