package services

import (
	"fmt"
	"html"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
)

// Notifier tells customers about order transitions
type Notifier interface {
	OrderPaid(order *models.Order)
	OrderShipped(order *models.Order)
}

// NopNotifier drops every notification
type NopNotifier struct{}

func (NopNotifier) OrderPaid(*models.Order)    {}
func (NopNotifier) OrderShipped(*models.Order) {}

// EmailNotifier mails the customer in the background
type EmailNotifier struct {
	mailer *utils.Mailer
}

// NewNotifier returns an email notifier, or a no-op one when mail is not configured
func NewNotifier(mailer *utils.Mailer) Notifier {
	if mailer == nil {
		return NopNotifier{}
	}
	return &EmailNotifier{mailer: mailer}
}

func (n *EmailNotifier) OrderPaid(order *models.Order) {
	subject := fmt.Sprintf("Order #%d confirmed", order.ID)
	body := fmt.Sprintf(`
		<h2>Thank you for your order, %s!</h2>
		<p>We received your payment of <strong>%s</strong> for order #%d.</p>
		<p>We will let you know as soon as it ships.</p>
	`, html.EscapeString(order.Customer.Name), utils.FormatPrice(order.Amount), order.ID)
	n.send(order, subject, body)
}

func (n *EmailNotifier) OrderShipped(order *models.Order) {
	subject := fmt.Sprintf("Order #%d has shipped", order.ID)
	body := fmt.Sprintf(`
		<h2>Your order is on its way</h2>
		<p>Order #%d was handed to %s.</p>
		<p>Track it here: <a href="%s">%s</a></p>
	`, order.ID, html.EscapeString(order.CourierName), order.TrackingURL, html.EscapeString(order.AWBCode))
	n.send(order, subject, body)
}

func (n *EmailNotifier) send(order *models.Order, subject, body string) {
	to := order.Customer.Email
	if to == "" {
		return
	}
	go func() {
		if err := n.mailer.SendEmail(to, subject, body); err != nil {
			utils.LogError("Failed to send %q for order %d: %v", subject, order.ID, err)
			return
		}
		utils.LogDebug("Sent %q for order %d", subject, order.ID)
	}()
}
