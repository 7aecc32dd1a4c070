/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package notification informs users about new OAuth grants.
package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/appsuite/oauthd/internal/system/config"
)

// GrantNotification carries the details of a newly authorized client.
type GrantNotification struct {
	Mail        string
	DisplayName string
	ClientName  string
	Scope       []string
	ClientIP    string
	CreatedAt   time.Time
}

// NotifierInterface sends grant notifications.
type NotifierInterface interface {
	NotifyGrantCreated(ctx context.Context, notification GrantNotification) error
}

// NewNotifier returns the SMTP notifier when notifications are enabled, and a no-op notifier otherwise.
func NewNotifier(notificationConfig config.NotificationConfig) NotifierInterface {
	if !notificationConfig.Enabled {
		return noOpNotifier{}
	}
	return NewSMTPNotifier(notificationConfig.SMTP)
}

type noOpNotifier struct{}

func (noOpNotifier) NotifyGrantCreated(context.Context, GrantNotification) error {
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier delivers grant notifications by mail.
type SMTPNotifier struct {
	cfg      config.SMTPConfig
	sendMail sendMailFunc
}

// NewSMTPNotifier creates a notifier for the given SMTP server.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, sendMail: smtp.SendMail}
}

var grantMailTemplate = template.Must(template.New("grant").Parse(`<html><body>
<p>Hello {{.DisplayName}},</p>
<p>the application <b>{{.ClientName}}</b> was granted access to your account on {{.CreatedAt.Format "2006-01-02 15:04 MST"}}
{{- if .ClientIP}} from {{.ClientIP}}{{end}}.</p>
<p>Granted permissions:</p>
<ul>{{range .Scope}}<li>{{.}}</li>{{end}}</ul>
<p>If you did not authorize this application, revoke its access in your account settings.</p>
</body></html>`))

// NotifyGrantCreated sends the grant notification mail.
func (n *SMTPNotifier) NotifyGrantCreated(ctx context.Context, notification GrantNotification) error {
	if notification.Mail == "" {
		return errors.New("user has no mail address")
	}
	if strings.ContainsAny(notification.Mail, "\r\n") {
		return errors.New("user mail address contains line breaks")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := grantMailTemplate.Execute(&body, notification); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	subject := fmt.Sprintf("%s was granted access to your account", headerValue(notification.ClientName))

	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n%s%s",
		headerValue(n.cfg.From), notification.Mail, subject, mime, body.String()))

	return n.sendMail(addr, auth, n.cfg.From, []string{notification.Mail}, msg)
}

var headerValueReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// headerValue folds line breaks into spaces so a value cannot start a new mail header.
func headerValue(value string) string {
	return headerValueReplacer.Replace(value)
}
