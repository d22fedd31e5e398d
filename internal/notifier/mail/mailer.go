// Package mail delivers confirmation emails over SMTP.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	gomail "github.com/wneessen/go-mail"

	"github.com/farringdon-press/boxoffice/internal/domain"
	"github.com/farringdon-press/boxoffice/internal/notifier"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type Notifier struct {
	client *gomail.Client
	from   string
	tmpl   *template.Template
}

func New(client *gomail.Client, from string) (*Notifier, error) {
	const op = "notifier.mail.New"

	tmpl, err := template.New("").
		Funcs(template.FuncMap{"money": formatMoney}).
		ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &Notifier{
		client: client,
		from:   from,
		tmpl:   tmpl,
	}, nil
}

func (n *Notifier) Notify(ctx context.Context, o *domain.Order, kind notifier.Kind) error {
	const op = "notifier.mail.Notify"

	body, err := n.render(o, kind)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	msg := gomail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	if err := msg.To(o.Customer.Email); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	msg.Subject(subjectFor(kind))
	msg.SetBodyString(gomail.TypeTextHTML, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

func (n *Notifier) render(o *domain.Order, kind notifier.Kind) (string, error) {
	var buf bytes.Buffer
	if err := n.tmpl.ExecuteTemplate(&buf, string(kind)+".gohtml", o); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func subjectFor(kind notifier.Kind) string {
	if kind == notifier.KindBookConfirmation {
		return "Your order is confirmed"
	}
	return "Your tickets are confirmed"
}

// formatMoney renders minor-unit amounts, e.g. 2500 "gbp" -> "£25.00".
func formatMoney(amount int64, currency string) string {
	symbol := map[string]string{
		"gbp": "£",
		"usd": "$",
		"eur": "€",
	}[currency]
	if symbol == "" {
		symbol = currency + " "
	}
	return fmt.Sprintf("%s%d.%02d", symbol, amount/100, amount%100)
}
