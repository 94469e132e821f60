package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	VerifyEmail       = "verify_email"
	ResetPassword     = "reset_password"
	OrderConfirmation = "order_confirmation"
)

var subjects = map[string]string{
	VerifyEmail:       "Verify your email address",
	ResetPassword:     "Reset your password",
	OrderConfirmation: "Your order confirmation",
}

// Bodies render from the EmailJob.Data map, so field names here mirror the
// JSON keys the services enqueue.
var bodies = map[string]*template.Template{
	VerifyEmail: template.Must(template.New(VerifyEmail).Parse(`
<p>Hi {{.firstName}},</p>
<p>Thanks for creating an account. Please confirm your email address:</p>
<p><a href="{{.verifyUrl}}">Verify email</a></p>
<p>The link expires in 24 hours. If you did not create this account, you can ignore this message.</p>
`)),
	ResetPassword: template.Must(template.New(ResetPassword).Parse(`
<p>Hi {{.firstName}},</p>
<p>You requested a password reset. Use the link below to choose a new password:</p>
<p><a href="{{.resetUrl}}">Reset password</a></p>
<p>The link expires in 30 minutes. If you did not request this, you can ignore this message.</p>
`)),
	OrderConfirmation: template.Must(template.New(OrderConfirmation).Parse(`
<p>Hi {{.firstName}},</p>
<p>We received your order <strong>{{.orderId}}</strong>.</p>
<table>
{{range .items}}<tr><td>{{.name}}</td><td>x{{.quantity}}</td><td>${{printf "%.2f" .price}}</td></tr>
{{end}}</table>
<p>Subtotal: ${{printf "%.2f" .subtotal}}<br>
Tax: ${{printf "%.2f" .tax}}<br>
Shipping: ${{printf "%.2f" .shipping}}<br>
<strong>Total: ${{printf "%.2f" .total}}</strong></p>
`)),
}

// Render produces the subject and HTML body for a named template.
func Render(name string, data any) (subject, html string, err error) {
	tpl, ok := bodies[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subjects[name], buf.String(), nil
}
