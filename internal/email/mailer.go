package email

import (
	"fmt"
	"net/smtp"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/orders"
)

// Mailer sends transactional mail over plain SMTP.
type Mailer struct {
	Host string
	Port string
	From string
}

func NewMailer(host, port, from string) *Mailer {
	return &Mailer{Host: host, Port: port, From: from}
}

func (m *Mailer) SendPasswordReset(to, link string) error {
	body := fmt.Sprintf(`<p>Recebemos um pedido para redefinir sua senha.</p>
<p><a href="%s">Clique aqui para escolher uma nova senha</a></p>
<p>Se você não pediu isso, ignore este email. O link expira em 30 minutos.</p>`, link)
	return m.send(to, "Recuperação de senha", body)
}

func (m *Mailer) SendOrderConfirmation(to, orderID string, totalCents int, lines []orders.PlacedLine) error {
	items := ""
	for _, l := range lines {
		items += fmt.Sprintf("<li>%s - %d x R$ %d,%02d</li>",
			l.ProductID, l.Qty, l.PriceCents/100, l.PriceCents%100)
	}
	body := fmt.Sprintf(`<p>Ordem criada com sucesso com o id %s</p>
<ul>%s</ul>
<p>Total: R$ %d,%02d</p>`, orderID, items, totalCents/100, totalCents%100)
	return m.send(to, fmt.Sprintf("Confirmação do pedido %s", shortID(orderID)), body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.From, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	return smtp.SendMail(addr, nil, m.From, []string{to}, []byte(msg))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
