package utils

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	sib "github.com/sendinblue/APIv3-go-library/v2/lib"

	"github.com/surflist/backend/models"
)

var createdTmpl = template.Must(template.New("created").Parse(`<h2>Your board is listed!</h2>
<p>Your listing <strong>{{.Title}}</strong> is now live.</p>
<p><a href="{{.ViewURL}}">View your listing</a> or <a href="{{.EditURL}}">edit it</a> at any time.</p>`))

var offerTmpl = template.Must(template.New("offer").Parse(`<h2>You have an offer on {{.Title}}!</h2>
<p><strong>{{.From}}</strong> sent you a message about your board:</p>
<blockquote>{{.Message}}</blockquote>
<p>Reply directly to <a href="mailto:{{.From}}">{{.From}}</a> to accept or haggle.</p>`))

// Mailer sends the two transactional emails of the service through
// Sendinblue. The zero value is unusable; use NewMailer.
type Mailer struct {
	client       *sib.APIClient
	senderName   string
	senderEmail  string
	clientOrigin string
}

// NewMailer builds a Mailer authenticated with the given Sendinblue API key.
// clientOrigin is the base URL of the web client, used for the view/edit
// links in the creation email.
func NewMailer(apiKey, senderEmail, clientOrigin string) *Mailer {
	cfg := sib.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)

	return &Mailer{
		client:       sib.NewAPIClient(cfg),
		senderName:   "Surflist",
		senderEmail:  senderEmail,
		clientOrigin: strings.TrimSuffix(clientOrigin, "/"),
	}
}

// SendBoardCreated emails the seller that their listing is live.
func (m *Mailer) SendBoardCreated(ctx context.Context, board models.Board) error {
	html, err := renderTemplate(createdTmpl, map[string]string{
		"Title":   board.Title,
		"ViewURL": fmt.Sprintf("%s/board/%s", m.clientOrigin, board.ID.Hex()),
		"EditURL": fmt.Sprintf("%s/edit/%s", m.clientOrigin, board.ID.Hex()),
	})
	if err != nil {
		return err
	}
	return m.send(ctx, board.Email, "Your board is listed on Surflist", html)
}

// SendOfferReceived forwards a buyer's offer to the seller.
func (m *Mailer) SendOfferReceived(ctx context.Context, board models.Board, offer models.Offer) error {
	html, err := renderTemplate(offerTmpl, map[string]string{
		"Title":   board.Title,
		"From":    offer.Email,
		"Message": offer.Message,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, board.Email, fmt.Sprintf("New offer on %s", board.Title), html)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	email := sib.SendSmtpEmail{
		Sender:      &sib.SendSmtpEmailSender{Name: m.senderName, Email: m.senderEmail},
		To:          []sib.SendSmtpEmailTo{{Email: to}},
		Subject:     subject,
		HtmlContent: htmlBody,
	}

	_, _, err := m.client.TransactionalEmailsApi.SendTransacEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("sendinblue send to %s: %w", to, err)
	}
	return nil
}

func renderTemplate(tmpl *template.Template, data map[string]string) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering email template: %w", err)
	}
	return sb.String(), nil
}
