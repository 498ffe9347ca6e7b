package services

import (
	"fmt"
	"strings"

	"labstore/internal/models"
	"labstore/pkg/notify"
)

// MailerService renders and sends the three transactional email types.
// Every send is best-effort; callers log and swallow failures.
type MailerService interface {
	SendOrderConfirmation(order *models.Order, items []models.OrderItem, bitcoinAddress string) error
	SendLowStockAlert(product *models.Product, currentStock int) error
	SendCartRecovery(cart *models.AbandonedCart, checkoutURL string) error
}

type mailerService struct {
	client     *notify.Client
	ownerEmail string
}

func NewMailerService(client *notify.Client, ownerEmail string) MailerService {
	return &mailerService{client: client, ownerEmail: ownerEmail}
}

func formatCents(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func (s *mailerService) SendOrderConfirmation(order *models.Order, items []models.OrderItem, bitcoinAddress string) error {
	var rows strings.Builder
	for _, item := range items {
		name := item.ProductName
		if name == "" {
			name = fmt.Sprintf("Product #%d", item.ProductID)
		}
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s × %d</td><td align=\"right\">%s</td></tr>",
			name, item.Quantity, formatCents(item.PricePerUnit*item.Quantity)))
	}

	shipping := formatCents(order.ShippingCost)
	if order.ShippingCost == 0 {
		shipping = "FREE"
	}

	var paymentBlock string
	if order.PaymentMethod == string(models.PaymentMethodBitcoin) {
		paymentBlock = fmt.Sprintf(
			"<p>Please send your Bitcoin payment to:</p><p><code>%s</code></p>"+
				"<p>Amount (USD): <strong>%s</strong>. Your order will be processed once payment is confirmed.</p>",
			bitcoinAddress, formatCents(order.Total))
	} else {
		paymentBlock = "<p>Your payment has been processed successfully.</p>"
	}

	html := fmt.Sprintf(`<html><body>
<h1>Order Confirmed!</h1>
<p>Order Number: <strong>%s</strong></p>
<table width="100%%">%s
<tr><td>Subtotal</td><td align="right">%s</td></tr>
<tr><td>Shipping (%s - %s)</td><td align="right">%s</td></tr>
<tr><td><strong>Total</strong></td><td align="right"><strong>%s</strong></td></tr>
</table>
%s
<h2>Shipping Address</h2>
<p>%s<br>%s<br>%s, %s %s<br>%s</p>
</body></html>`,
		order.OrderNumber, rows.String(),
		formatCents(order.Subtotal),
		order.ShippingCarrier, order.ShippingService, shipping,
		formatCents(order.Total),
		paymentBlock,
		order.CustomerName, order.ShippingAddress,
		order.ShippingCity, order.ShippingState, order.ShippingZip, order.ShippingCountry)

	subject := fmt.Sprintf("Order Confirmation - %s", order.OrderNumber)
	return s.client.SendEmail(order.CustomerEmail, subject, html)
}

func (s *mailerService) SendLowStockAlert(product *models.Product, currentStock int) error {
	subject := fmt.Sprintf("Low Stock Alert: %s", product.Name)
	html := fmt.Sprintf(`<html><body>
<h1>Low Stock Alert</h1>
<p>Product: <strong>%s</strong> (ID %d)<br>
Category: %s<br>
Current Stock: %d units<br>
Low Stock Threshold: %d units</p>
<p>Please restock this product to avoid stockouts. Stock levels can be updated
from Admin &rarr; Products.</p>
</body></html>`,
		product.Name, product.ID, product.Category, currentStock, product.LowStockThreshold)

	return s.client.SendEmail(s.ownerEmail, subject, html)
}

func (s *mailerService) SendCartRecovery(cart *models.AbandonedCart, checkoutURL string) error {
	name := cart.CustomerName
	if name == "" {
		name = "there"
	}
	html := fmt.Sprintf(`<html><body>
<h1>You left something behind</h1>
<p>Hi %s, your cart (%s) is still waiting for you.</p>
<p><a href="%s">Complete your checkout</a></p>
</body></html>`,
		name, formatCents(cart.TotalCents), checkoutURL)

	return s.client.SendEmail(cart.CustomerEmail, "Complete your order", html)
}
