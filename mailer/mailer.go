package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// ReservationDetails is the payload for reservation outcome emails.
type ReservationDetails struct {
	Date   string
	Time   string
	People int
	Branch string
}

// ReceiptItem is one purchase-snapshot line on an order email.
type ReceiptItem struct {
	Name     string
	Price    float64
	Quantity int
	ImageURL string
}

// OrderDetails is the payload for order lifecycle emails.
type OrderDetails struct {
	OrderID         string
	Name            string
	TotalPrice      float64
	ShippingAddress string
	City            string
	Branch          string
	Items           []ReceiptItem
}

// Mailer sends transactional customer emails. Failures are independent of the
// mutation that triggered the send.
type Mailer interface {
	SendReservationConfirmed(to string, details ReservationDetails) error
	SendReservationRejected(to string, details ReservationDetails) error
	SendQueryReply(to string, message string) error
	SendOrderReceived(to string, details OrderDetails) error
	SendOrderReady(to string, details OrderDetails) error
	SendOrderDelivered(to string, details OrderDetails) error
}

// SMTPMailer delivers mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: \"Serendib Savor\" <%s>\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := m.Host + ":" + m.Port
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg.String()))
}

func (m *SMTPMailer) SendReservationConfirmed(to string, details ReservationDetails) error {
	return m.send(to, "Reservation Confirmation", reservationConfirmedBody(details))
}

func (m *SMTPMailer) SendReservationRejected(to string, details ReservationDetails) error {
	return m.send(to, "Reservation Rejection", reservationRejectedBody(details))
}

func (m *SMTPMailer) SendQueryReply(to string, message string) error {
	return m.send(to, "Reply to Your Query", queryReplyBody(message))
}

func (m *SMTPMailer) SendOrderReceived(to string, details OrderDetails) error {
	return m.send(to, "Order Received - We're Preparing Your Delicious Meal!", orderBody("Order Received!", "Thank you for your order! We are excited to prepare your meal. Here are the details:", details))
}

func (m *SMTPMailer) SendOrderReady(to string, details OrderDetails) error {
	return m.send(to, "Your Order Is Ready!", orderBody("Order Ready!", "Your order is ready for pickup or on its way. Here are the details:", details))
}

func (m *SMTPMailer) SendOrderDelivered(to string, details OrderDetails) error {
	return m.send(to, "Your Order Has Been Delivered!", orderBody("Order Delivered!", "Your order has been delivered. We hope you enjoy your meal! Here are the details:", details))
}
