// Package analysis requests structured campaign analyses and storefront audits.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"smart-reminder/internal/genai"
	"smart-reminder/internal/model"
	"smart-reminder/internal/state"
	"smart-reminder/pkg/logger"
	"smart-reminder/prometheus"

	"go.uber.org/zap"
)

var (
	// ErrEmptyInput is returned when a campaign analysis has neither text nor a file
	ErrEmptyInput = errors.New("campaign data or file is required")
	// ErrInvalidURL is returned for an audit target that is not an http(s) URL
	ErrInvalidURL = errors.New("a valid store url is required")
)

const (
	KindCampaign = "campaign"
	KindAudit    = "audit"
)

// CampaignInput is the data a merchant submits for analysis
type CampaignInput struct {
	Platform string
	Data     string
	File     *genai.Attachment
	Language string
}

// Service runs analyses for the active merchant
type Service struct {
	state *state.State
	ai    genai.Client
	keys  genai.KeySelector
}

func NewService(st *state.State, ai genai.Client, keys genai.KeySelector) *Service {
	return &Service{state: st, ai: ai, keys: keys}
}

func languageName(lang string) string {
	if lang == "ar" {
		return "Arabic"
	}
	return "English"
}

// CampaignPrompt is the analysis instruction sent with the campaign data
func CampaignPrompt(platform, data, lang string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze this marketing campaign for %s.\n", platform)
	sb.WriteString("Return a JSON object with:\n")
	sb.WriteString("- metrics: { roas: number, ctr: number, cpc: number, spend: number, conversions: number }\n")
	sb.WriteString("- insights: array of { text: string, type: 'positive' | 'negative' | 'neutral' }\n")
	sb.WriteString("- next_steps: array of string suggestions.\n")
	fmt.Fprintf(&sb, "Translate text and descriptions to %s.\n", languageName(lang))
	sb.WriteString("ROAS as multiplier (e.g. 4.5), Spend and CPC as numbers.")
	if strings.TrimSpace(data) != "" {
		sb.WriteString("\nManual Data: " + data)
	}
	return sb.String()
}

// AuditPrompt is the audit instruction for target
func AuditPrompt(target, lang string) string {
	return fmt.Sprintf("Perform a technical SEO and performance audit for: %s.\n"+
		"You must return a JSON object with strictly these keys:\n"+
		"- performance: { load_speed: number, mobile_resp: number, code_health: number }\n"+
		"- seo: { meta_tags: number, indexing: number, backlinks: number }\n"+
		"- ux: { navigation: number, content_quality: number }\n"+
		"- recommendations: array of { title: string, impact: 'high' | 'medium' | 'low', category: string }\n"+
		"Scores are 0-100. Recommendations should be in %s.", target, languageName(lang))
}

// Campaign analyses campaign data and makes the report the merchant's latest
func (s *Service) Campaign(ctx context.Context, in CampaignInput) (model.CampaignReport, error) {
	hasFile := in.File != nil && len(in.File.Data) > 0
	if strings.TrimSpace(in.Data) == "" && !hasFile {
		return model.CampaignReport{}, ErrEmptyInput
	}
	if in.Platform == "" {
		in.Platform = "Meta"
	}

	req := genai.JSONRequest{
		Prompt: CampaignPrompt(in.Platform, in.Data, in.Language),
		Schema: genai.CampaignReportSchema(),
		Pro:    true,
	}
	if hasFile {
		file := *in.File
		if file.MIMEType == "" {
			file.MIMEType = "application/octet-stream"
		}
		req.Attachments = []genai.Attachment{file}
	}

	var report model.CampaignReport
	if err := s.generate(ctx, KindCampaign, req, &report); err != nil {
		return model.CampaignReport{}, err
	}
	report.Platform = in.Platform
	s.state.SetLatestCampaignReport(ctx, report)

	logger.FromContext(ctx).Info("Campaign analysed",
		zap.String("merchant_id", s.state.MerchantID()),
		zap.String("platform", in.Platform),
		zap.Bool("with_file", hasFile))
	return report, nil
}

// Audit scores a storefront
func (s *Service) Audit(ctx context.Context, target, lang string) (model.AuditReport, error) {
	target = strings.TrimSpace(target)
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return model.AuditReport{}, ErrInvalidURL
	}

	var report model.AuditReport
	req := genai.JSONRequest{Prompt: AuditPrompt(u.String(), lang), Schema: genai.StoreAuditSchema()}
	if err := s.generate(ctx, KindAudit, req, &report); err != nil {
		return model.AuditReport{}, err
	}
	report.URL = u.String()

	logger.FromContext(ctx).Info("Store audited",
		zap.String("merchant_id", s.state.MerchantID()),
		zap.String("url", report.URL))
	return report, nil
}

func (s *Service) generate(ctx context.Context, kind string, req genai.JSONRequest, out any) error {
	err := genai.ClassifyError(s.ai.GenerateJSON(ctx, req, out))
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	prometheus.AnalysisCounter.WithLabelValues(kind, outcome).Inc()
	if err == nil {
		return nil
	}

	if errors.Is(err, genai.ErrEntityNotFound) && s.keys != nil {
		if kerr := s.keys.SelectKey(ctx); kerr != nil {
			logger.FromContext(ctx).Warn("API key re-selection failed", zap.Error(kerr))
		}
	}
	logger.FromContext(ctx).Error("Analysis failed", zap.String("kind", kind), zap.Error(err))
	return fmt.Errorf("%s analysis: %w", kind, err)
}
