package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type EmailSender struct {
	apiKey      string
	senderEmail string
	senderName  string
	frontend    string
}

func NewEmailSender(apiKey, senderEmail, frontend string) *EmailSender {
	return &EmailSender{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  "LearnHub Support",
		frontend:    frontend,
	}
}

// SendGrid request format
type sgEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
type sgRequest struct {
	Personalizations []struct {
		To []sgEmail `json:"to"`
	} `json:"personalizations"`
	From    sgEmail     `json:"from"`
	Subject string      `json:"subject"`
	Content []sgContent `json:"content"`
}

func (s *EmailSender) SendResetEmail(toEmail string, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontend, token)
	html := fmt.Sprintf(`<p>Для сброса пароля перейдите по ссылке:</p><p><a href="%s">%s</a></p><p>Ссылка действует 15 минут.</p>`, resetLink, resetLink)
	return s.send(toEmail, "Восстановление пароля", html)
}

// Письмо-квитанция после оформления заказа
func (s *EmailSender) SendOrderReceipt(toEmail string, orderID string, totalCents int) error {
	html := fmt.Sprintf(`<p>Ваш заказ <b>%s</b> принят.</p><p>Сумма: %.2f</p><p>Статус можно посмотреть в личном кабинете: %s/orders</p>`,
		orderID, float64(totalCents)/100, s.frontend)
	return s.send(toEmail, "Заказ принят", html)
}

func (s *EmailSender) send(toEmail, subject, html string) error {
	body := sgRequest{
		Personalizations: []struct {
			To []sgEmail `json:"to"`
		}{
			{To: []sgEmail{{Email: toEmail}}},
		},
		From: sgEmail{
			Email: s.senderEmail,
			Name:  s.senderName,
		},
		Subject: subject,
		Content: []sgContent{
			{Type: "text/html", Value: html},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.sendgrid.com/v3/mail/send", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid error %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
