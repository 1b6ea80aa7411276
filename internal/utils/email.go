package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"

	"freshkart_back_end/internal/models"
)

// SendInvoiceEmail sends an HTML mail with an optional PDF attachment.
func SendInvoiceEmail(to, subject, htmlBody string, pdf []byte, pdfName string) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@freshkart.in"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdf != nil {
		msg.AttachReader(pdfName, bytes.NewReader(pdf))
	}

	host := os.Getenv("SMTP_HOST")
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}

	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Sending e-mail to", to)
	return client.DialAndSend(msg)
}

// OrderConfirmationHTML builds the confirmation mail body for an order.
func OrderConfirmationHTML(order models.Order, userName string) string {
	if userName == "" {
		userName = "there"
	}

	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd; text-align: center;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd; text-align: right;">Rs. %.2f</td>
				<td style="padding: 8px; border: 1px solid #ddd; text-align: right;">Rs. %.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Order confirmation</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f8f4; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #2e7d32;">Your FreshKart order is confirmed 🧺</h2>
		<p>Hi %s,</p>
		<p>Thanks for your order! We are packing your groceries now. Your invoice is attached.</p>

		<h3>Order %s</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #e8f5e9;">
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Item</th>
					<th style="padding: 8px; border: 1px solid #ddd;">Qty</th>
					<th style="padding: 8px; text-align: right; border: 1px solid #ddd;">Unit Price</th>
					<th style="padding: 8px; text-align: right; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 8px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 8px; text-align: right; font-weight: bold;">Rs. %.2f</td>
				</tr>
			</tfoot>
		</table>

		<p style="margin-top: 30px; color: #555;">
			Happy cooking,<br>
			<strong>The FreshKart team</strong>
		</p>
	</div>
</body>
</html>`, userName, order.ID.String(), itemsHTML, order.TotalAmount)
}
