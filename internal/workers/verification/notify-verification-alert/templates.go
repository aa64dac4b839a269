// internal/workers/verification/notify-verification-alert/templates.go
package notifyverificationalert

import (
	"fmt"
	"strings"

	"field-verification/internal/models"
)

// templates are keyed by "<kind>.<channel>". SMS templates only use Body.
var templates = map[string]models.NotificationTemplate{
	"document.email": {
		Subject: "[{{verdict}}] Document verification for application {{applicationId}}",
		Body: "Verification {{verificationId}} for application {{applicationId}} scored {{score}} and was marked {{verdict}}.\n\n" +
			"Reasons:\n{{reasons}}\n\nPlease review the uploaded document before approval.",
	},
	"plate.email": {
		Subject: "[{{verdict}}] Vehicle verification for application {{applicationId}}",
		Body: "The officer-entered vehicle details for application {{applicationId}} were marked {{verdict}} " +
			"(score {{score}}, verification {{verificationId}}).\n\nReasons:\n{{reasons}}",
	},
	"document.sms": {
		Body: "Field verification alert: document for application {{applicationId}} marked {{verdict}} ({{score}}). Please re-check.",
	},
	"plate.sms": {
		Body: "Field verification alert: vehicle for application {{applicationId}} marked {{verdict}} ({{score}}). Please re-check the RC details.",
	},
}

func templateFor(kind, channel string) models.NotificationTemplate {
	return templates[kind+"."+channel]
}

func renderData(input *Input) map[string]interface{} {
	reasons := "-"
	if len(input.Reasons) > 0 {
		reasons = "- " + strings.Join(input.Reasons, "\n- ")
	}
	return map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"verificationId": input.VerificationID,
		"kind":           input.Kind,
		"verdict":        input.Verdict,
		"score":          input.Score,
		"reasons":        reasons,
	}
}

// renderTemplate replaces {{key}} placeholders and drops unknown ones.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		switch x := v.(type) {
		case string:
			value = x
		case float64:
			value = fmt.Sprintf("%.2f", x)
		case nil:
		default:
			value = fmt.Sprintf("%v", x)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
