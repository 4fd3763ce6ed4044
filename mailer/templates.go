package mailer

import (
	"fmt"
	"strings"
)

const signature = `
      <p style="font-size: 16px; margin-top: 40px; text-align: center;">
        <strong>Serendib Savor</strong><br/>
        123 Main Street, Colombo<br/>
        <a href="tel:+94123456789" style="color: #FF0000; text-decoration: none;">+94 123 456 789</a><br/>
        <a href="mailto:info@serendibsavor.com" style="color: #FF0000; text-decoration: none;">info@serendibsavor.com</a>
      </p>`

func reservationTable(details ReservationDetails) string {
	rows := [][2]string{
		{"Branch:", details.Branch},
		{"Number of People:", fmt.Sprintf("%d", details.People)},
		{"Date:", details.Date},
		{"Time:", details.Time},
	}
	var b strings.Builder
	b.WriteString(`<table style="width: 100%; border-collapse: collapse; margin-top: 20px;">`)
	for _, row := range rows {
		fmt.Fprintf(&b, `<tr><td style="padding: 10px; border: 1px solid #ddd;">%s</td><td style="padding: 10px; border: 1px solid #ddd; font-weight: bold;">%s</td></tr>`, row[0], row[1])
	}
	b.WriteString(`</table>`)
	return b.String()
}

func reservationConfirmedBody(details ReservationDetails) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: 'Poppins', Arial, sans-serif; color: #333; max-width: 600px; margin: auto; padding: 20px;">`)
	b.WriteString(`<h2 style="text-align: center; color: #FF0000;">Reservation Confirmed!</h2>`)
	b.WriteString(`<p style="font-size: 16px;">Dear Customer,</p>`)
	b.WriteString(`<p style="font-size: 16px;">We are thrilled to confirm your reservation!</p>`)
	b.WriteString(reservationTable(details))
	b.WriteString(`<p style="font-size: 16px; margin-top: 20px;">We look forward to welcoming you soon!</p>`)
	b.WriteString(signature)
	b.WriteString(`</body></html>`)
	return b.String()
}

func reservationRejectedBody(details ReservationDetails) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: 'Poppins', Arial, sans-serif; color: #333; max-width: 600px; margin: auto; padding: 20px;">`)
	b.WriteString(`<h2 style="text-align: center; color: #FF0000;">Reservation Rejected</h2>`)
	b.WriteString(`<p style="font-size: 16px;">Dear Customer,</p>`)
	b.WriteString(`<p style="font-size: 16px;">We regret to inform you that your reservation could not be confirmed.</p>`)
	b.WriteString(reservationTable(details))
	b.WriteString(`<p style="font-size: 16px; margin-top: 20px;">We apologize for any inconvenience this may have caused. If you have any questions, feel free to contact us.</p>`)
	b.WriteString(signature)
	b.WriteString(`</body></html>`)
	return b.String()
}

func queryReplyBody(message string) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: 'Poppins', Arial, sans-serif; color: #333; max-width: 600px; margin: auto; padding: 20px;">`)
	b.WriteString(`<h2 style="text-align: center; color: #FF0000;">Reply to Your Query</h2>`)
	b.WriteString(`<p style="font-size: 16px;">Dear Customer,</p>`)
	fmt.Fprintf(&b, `<p style="font-size: 16px;">%s</p>`, message)
	b.WriteString(signature)
	b.WriteString(`</body></html>`)
	return b.String()
}

func orderBody(heading, intro string, details OrderDetails) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: 'Poppins', Arial, sans-serif; color: #333; max-width: 600px; margin: auto; padding: 20px;">`)
	fmt.Fprintf(&b, `<div style="text-align: center; padding: 20px 0; background-color: #FF4D4D; border-radius: 5px;"><h2 style="color: #FFF;">%s</h2></div>`, heading)
	fmt.Fprintf(&b, `<p style="font-size: 16px; margin-top: 20px;">Dear %s,</p>`, details.Name)
	fmt.Fprintf(&b, `<p style="font-size: 16px;">%s</p>`, intro)

	b.WriteString(`<table style="width: 100%; border-collapse: collapse; margin-top: 20px;">`)
	rows := [][2]string{
		{"Order ID:", details.OrderID},
		{"Total Price:", fmt.Sprintf("Rs.%.2f", details.TotalPrice)},
		{"Shipping Address:", details.ShippingAddress},
		{"City:", details.City},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, `<tr style="background-color: #FFEDED;"><td style="padding: 10px; border: 1px solid #FF4D4D;">%s</td><td style="padding: 10px; border: 1px solid #FF4D4D; font-weight: bold;">%s</td></tr>`, row[0], row[1])
	}
	b.WriteString(`</table>`)

	b.WriteString(`<h3 style="margin-top: 30px; color: #FF4D4D;">Ordered Items:</h3>`)
	for _, item := range details.Items {
		b.WriteString(`<div style="margin-top: 15px; border: 1px solid #FF4D4D; border-radius: 5px; padding: 10px; background-color: #FFEDED;">`)
		fmt.Fprintf(&b, `<p style="font-size: 16px; margin: 0; font-weight: bold; color: #FF4D4D;">%s</p>`, item.Name)
		fmt.Fprintf(&b, `<p style="font-size: 14px; margin: 5px 0;">Quantity: %d</p>`, item.Quantity)
		fmt.Fprintf(&b, `<p style="font-size: 14px; margin: 0;">Price: Rs.%.2f</p>`, item.Price)
		if item.ImageURL != "" {
			fmt.Fprintf(&b, `<img src="%s" alt="%s" style="width: 100px; height: auto; margin-top: 10px;">`, item.ImageURL, item.Name)
		}
		b.WriteString(`</div>`)
	}

	fmt.Fprintf(&b, `<p style="font-size: 16px; margin-top: 20px;"><strong>Serendib Savor</strong><br/>123 Main Street, %s<br/><a href="tel:+94123456789" style="color: #FF4D4D; text-decoration: none;">+94 123 456 789</a><br/><a href="mailto:info@serendibsavor.com" style="color: #FF4D4D; text-decoration: none;">info@serendibsavor.com</a></p>`, details.Branch)
	b.WriteString(`</body></html>`)
	return b.String()
}
