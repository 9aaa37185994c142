package template

// Shipped template bodies. HTML goes through html/template so dynamic
// values are escaped; text bodies are the plain fallback.

const welcomeHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; background: #f4f4f4; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; }
    .header { background: #4a6fdc; color: white; text-align: center; padding: 30px 20px; }
    .content { padding: 30px 20px; }
    .footer { padding: 20px; text-align: center; font-size: 12px; color: #888; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Welcome, {{.name}}!</h1>
    </div>
    <div class="content">
      <p>Hi {{.name}},</p>
      <p>Your account has been created with the address <strong>{{.email}}</strong>.</p>
      <p>We are glad to have you on board. You can sign in right away and start exploring.</p>
    </div>
    <div class="footer">You are receiving this message because an account was created with this address.</div>
  </div>
</body>
</html>
`

const welcomeText = `Welcome, {{.name}}!

Your account has been created with the address {{.email}}.

We are glad to have you on board. You can sign in right away and start exploring.
`

const orderConfirmationHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; background: #f4f4f4; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; }
    .header { background: #2e8b57; color: white; text-align: center; padding: 30px 20px; }
    .content { padding: 30px 20px; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    th, td { padding: 8px 12px; border-bottom: 1px solid #ddd; text-align: left; }
    .total { font-size: 18px; font-weight: bold; text-align: right; }
    .footer { padding: 20px; text-align: center; font-size: 12px; color: #888; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Order #{{.orderId}} confirmed</h1>
    </div>
    <div class="content">
      <p>Thank you for your order. Here is what you bought:</p>
      <table>
        <tr><th>Item</th><th>Qty</th><th>Price</th></tr>
        {{range .items}}<tr><td>{{.name}}</td><td>{{.quantity}}</td><td>${{.price}}</td></tr>
        {{end}}
      </table>
      <p class="total">Total: ${{.total}}</p>
      {{if .shippingAddress}}<p>Shipping to: {{.shippingAddress}}</p>{{end}}
    </div>
    <div class="footer">Keep this message as your receipt.</div>
  </div>
</body>
</html>
`

const orderConfirmationText = `Order #{{.orderId}} confirmed

Thank you for your order. Here is what you bought:

{{range .items}}- {{.name}} x{{.quantity}}: ${{.price}}
{{end}}
Total: ${{.total}}
{{if .shippingAddress}}
Shipping to: {{.shippingAddress}}
{{end}}`

const passwordResetHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; background: #f4f4f4; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; }
    .header { background: #b5541c; color: white; text-align: center; padding: 30px 20px; }
    .content { padding: 30px 20px; }
    .token { font-family: monospace; font-size: 16px; background: #f0f0f0; padding: 10px; display: inline-block; }
    .button { display: inline-block; background: #b5541c; color: white; padding: 12px 24px; text-decoration: none; margin: 16px 0; }
    .footer { padding: 20px; text-align: center; font-size: 12px; color: #888; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Reset your password</h1>
    </div>
    <div class="content">
      <p>Hi {{.name}},</p>
      <p>We received a request to reset your password. Use the code below:</p>
      <p><span class="token">{{.resetToken}}</span></p>
      {{if .resetUrl}}<p><a class="button" href="{{.resetUrl}}">Reset password</a></p>{{end}}
      <p>If you did not request this, you can safely ignore this message.</p>
    </div>
    <div class="footer">This code expires shortly after it was issued.</div>
  </div>
</body>
</html>
`

const passwordResetText = `Reset your password

Hi {{.name}},

We received a request to reset your password. Use the code below:

    {{.resetToken}}
{{if .resetUrl}}
Or open this link: {{.resetUrl}}
{{end}}
If you did not request this, you can safely ignore this message.
`

const shippingNotificationHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; background: #f4f4f4; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; }
    .header { background: #1c6fb5; color: white; text-align: center; padding: 30px 20px; }
    .content { padding: 30px 20px; }
    .tracking { font-family: monospace; font-size: 16px; background: #f0f0f0; padding: 10px; display: inline-block; }
    .footer { padding: 20px; text-align: center; font-size: 12px; color: #888; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Order #{{.orderId}} shipped</h1>
    </div>
    <div class="content">
      <p>Good news: your order is on its way.</p>
      <p>Tracking number: <span class="tracking">{{.trackingNumber}}</span></p>
      {{if .carrier}}<p>Carrier: {{.carrier}}</p>{{end}}
      {{if .estimatedDelivery}}<p>Estimated delivery: {{.estimatedDelivery}}</p>{{end}}
    </div>
    <div class="footer">Track your package with the carrier using the number above.</div>
  </div>
</body>
</html>
`

const shippingNotificationText = `Order #{{.orderId}} shipped

Good news: your order is on its way.

Tracking number: {{.trackingNumber}}
{{if .carrier}}Carrier: {{.carrier}}
{{end}}{{if .estimatedDelivery}}Estimated delivery: {{.estimatedDelivery}}
{{end}}`

const promotionHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; background: #f4f4f4; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; }
    .header { background: #c0392b; color: white; text-align: center; padding: 30px 20px; }
    .content { padding: 30px 20px; text-align: center; }
    .code { font-family: monospace; font-size: 22px; letter-spacing: 2px; background: #f0f0f0; padding: 12px 24px; display: inline-block; border: 2px dashed #c0392b; }
    .footer { padding: 20px; text-align: center; font-size: 12px; color: #888; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>{{.promoTitle}}</h1>
    </div>
    <div class="content">
      {{if .promoDescription}}<p>{{.promoDescription}}</p>{{end}}
      <p>Use this code at checkout:</p>
      <p><span class="code">{{.discountCode}}</span></p>
      {{if .validUntil}}<p>Valid until {{.validUntil}}.</p>{{end}}
    </div>
    <div class="footer">You are receiving this offer as a subscriber to our promotions.</div>
  </div>
</body>
</html>
`

const promotionText = `{{.promoTitle}}
{{if .promoDescription}}
{{.promoDescription}}
{{end}}
Use this code at checkout: {{.discountCode}}
{{if .validUntil}}
Valid until {{.validUntil}}.
{{end}}`
