package mail

import (
	"html/template"
	"strings"
)

var clientWelcomeTemplate = template.Must(template.New("client_welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #3d3d3d;">
  <h2>Thank you, {{.BrideName}}!</h2>
  <p>{{.VendorName}} has received your inquiry for {{.EventDate}}.</p>
  <p>Your inquiry number is <strong>{{.InquiryNumber}}</strong>.</p>
  <p>You can review your event and start designing here:</p>
  <p><a href="{{.LoginURL}}">Open your event workspace</a></p>
  <p>With love,<br>{{.VendorName}}</p>
</body>
</html>`))

var vendorAlertTemplate = template.Must(template.New("vendor_alert").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #3d3d3d;">
  <h2>New inquiry {{.InquiryNumber}}</h2>
  <p><strong>{{.BrideName}}</strong> reached out about {{.EventDate}}.</p>
  <ul>
    <li>Email: {{.ClientEmail}}</li>
    <li>Phone: {{.ClientPhone}}</li>
    {{if .Message}}<li>Message: {{.Message}}</li>{{end}}
  </ul>
</body>
</html>`))

// ClientWelcomeData feeds the client welcome email.
type ClientWelcomeData struct {
	BrideName     string
	VendorName    string
	EventDate     string
	InquiryNumber string
	LoginURL      string
}

// RenderClientWelcome renders the welcome email sent to a new inquirer.
func RenderClientWelcome(data ClientWelcomeData) (string, error) {
	var out strings.Builder
	if err := clientWelcomeTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// VendorAlertData feeds the new-inquiry alert sent to the vendor.
type VendorAlertData struct {
	BrideName     string
	ClientEmail   string
	ClientPhone   string
	EventDate     string
	InquiryNumber string
	Message       string
}

// RenderVendorAlert renders the alert email sent to the vendor.
func RenderVendorAlert(data VendorAlertData) (string, error) {
	var out strings.Builder
	if err := vendorAlertTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}
