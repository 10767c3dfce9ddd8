package studio

import (
	"fmt"
	"strings"

	"smart-reminder/internal/model"
)

// Modalities the studio can generate
const (
	ModalityCopy      = "copy"
	ModalityImage     = "image"
	ModalityVideo     = "video"
	ModalityVoiceover = "voiceover"
)

// Aspect ratios
const (
	AspectSquare    = "1:1"
	AspectPortrait  = "9:16"
	AspectLandscape = "16:9"
)

const (
	LangArabic  = "ar"
	LangEnglish = "en"
)

const (
	DefaultVoice = "Kore"
	DefaultTone  = "persuasive"

	placeholderStore = "My Store"
)

// Voices is the prebuilt voice roster
var Voices = []string{"Kore", "Zephyr", "Puck", "Charon", "Fenrir"}

// Tones are the supported copy tones
var Tones = []string{"persuasive", "professional", "friendly", "urgent", "luxury"}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ValidVoice reports whether v is in the roster
func ValidVoice(v string) bool { return contains(Voices, v) }

// ValidTone reports whether t is a supported tone
func ValidTone(t string) bool { return contains(Tones, t) }

// ResolveEventTitle picks the custom text when it has content, else the event title in lang
func ResolveEventTitle(custom string, event *model.MarketingEvent, lang string) string {
	if strings.TrimSpace(custom) != "" {
		return custom
	}
	if event == nil {
		return ""
	}
	return event.Title.Data().In(lang)
}

// NormalizeAspectRatio coerces the requested ratio for the modality. Video is never square.
func NormalizeAspectRatio(modality, ratio string) string {
	switch ratio {
	case AspectSquare, AspectPortrait, AspectLandscape:
	default:
		ratio = AspectSquare
	}
	if modality == ModalityVideo && ratio == AspectSquare {
		return AspectPortrait
	}
	return ratio
}

func languageName(lang string) string {
	if lang == LangArabic {
		return "Arabic"
	}
	return "English"
}

// Brand is the identity a prompt is built for. Colors are empty when identity sync is off.
type Brand struct {
	StoreName       string
	BusinessType    string
	PrimaryColor    string
	SecondaryColor1 string
	SecondaryColor2 string
}

// BrandFor extracts the brand from a profile, dropping the colors unless sync is on
func BrandFor(p model.MerchantProfile, sync bool) Brand {
	b := Brand{StoreName: p.StoreName, BusinessType: p.BusinessType}
	if b.StoreName == "" {
		b.StoreName = placeholderStore
	}
	if sync {
		b.PrimaryColor = p.PrimaryColor
		b.SecondaryColor1 = p.SecondaryColor1
		b.SecondaryColor2 = p.SecondaryColor2
	}
	return b
}

// CopyPrompt builds the social caption prompt
func CopyPrompt(b Brand, event, tone, lang string) string {
	identity := ""
	if b.PrimaryColor != "" {
		identity = fmt.Sprintf("Brand Identity: Dominant colors are %s and %s. Reflect these colors in the copy's visual descriptions if applicable.",
			b.PrimaryColor, b.SecondaryColor1)
	}
	language := languageName(lang)

	var sb strings.Builder
	sb.WriteString("Write a professional marketing caption for social media.\n")
	fmt.Fprintf(&sb, "Store Name: %s\n", b.StoreName)
	fmt.Fprintf(&sb, "Business Category: %s\n", b.BusinessType)
	fmt.Fprintf(&sb, "Event/Occasion: %s\n", event)
	fmt.Fprintf(&sb, "Tone: %s\n", tone)
	if identity != "" {
		sb.WriteString(identity + "\n")
	}
	fmt.Fprintf(&sb, "Target Output Language: %s\n", language)
	fmt.Fprintf(&sb, "Include hashtags and a clear call to action in %s. Return only the text.", language)
	return sb.String()
}

// ImagePrompt builds the marketing image prompt
func ImagePrompt(b Brand, event, lang string) string {
	base := fmt.Sprintf("A professional marketing visual for %s, a %s business, celebrating %s",
		b.StoreName, b.BusinessType, event)

	visual := "CRITICAL VISUAL REQUIREMENT: Use a vibrant, professional, and commercially attractive color palette that fits the event theme perfectly."
	if b.PrimaryColor != "" {
		visual = fmt.Sprintf("CRITICAL VISUAL REQUIREMENT: Use a consistent color palette based on the brand's visual identity: "+
			"Primary color: %s. Secondary accents: %s and %s. "+
			"The overall lighting, background elements, and textures should reflect this color scheme for brand consistency.",
			b.PrimaryColor, b.SecondaryColor1, b.SecondaryColor2)
	}

	language := "If there is any visible text in the image, use English language. The style should appeal to an international market."
	if lang == LangArabic {
		language = "If there is any visible text in the image, use Arabic language. The style should appeal to the Middle Eastern market."
	}
	return base + ". " + visual + ". " + language
}

// VideoPrompt builds the short promotional video prompt
func VideoPrompt(b Brand, event, lang string) string {
	base := fmt.Sprintf("A short cinematic promotional video for %s celebrating %s", b.StoreName, event)

	grading := "The video cinematography should be professional, high-quality, and color-graded to suit a high-end commercial look."
	if b.PrimaryColor != "" {
		grading = fmt.Sprintf("The video cinematography should be color-graded to match the brand identity using %s and %s as the core color theme.",
			b.PrimaryColor, b.SecondaryColor1)
	}
	narrative := fmt.Sprintf("The visual narrative and any on-screen text/context should be in %s culture/language.", languageName(lang))
	return base + ". " + grading + ". " + narrative
}

// VoiceoverScript returns the merchant's script, or the promotional template when it is blank
func VoiceoverScript(script string, b Brand, event, lang string) string {
	if strings.TrimSpace(script) != "" {
		return script
	}
	if lang == LangArabic {
		return fmt.Sprintf("أهلاً بكم في %s. بمناسبة %s، نقدم لكم أقوى العروض الحصرية وبجودة تليق بكم. لا تفوتوا الفرصة!", b.StoreName, event)
	}
	return fmt.Sprintf("Welcome to %s. On the occasion of %s, we offer you the strongest exclusive deals with quality that suits you. Don't miss out!", b.StoreName, event)
}

// VoiceInstruction is the speech system instruction
func VoiceInstruction(b Brand, sync bool, lang string) string {
	language := languageName(lang)
	if sync {
		return fmt.Sprintf("You are the voice of %s. This brand uses a visual identity of %s. Deliver the script in %s with a tone that matches this professional identity.",
			b.StoreName, b.PrimaryColor, language)
	}
	return fmt.Sprintf("You are a professional voice artist. Deliver the script in %s in a commercial and engaging tone.", language)
}

// VoiceoverLabel is the text recorded in the content history for a voiceover
func VoiceoverLabel(voice, event, lang string) string {
	return fmt.Sprintf("Voiceover: %s for %s (%s)", voice, event, lang)
}
