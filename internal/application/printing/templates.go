package printing

const orderReceiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: monospace; font-size: 12px; margin: 0; }
  .header { text-align: center; margin-bottom: 8px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { text-align: left; padding: 2px 4px; }
  .num { text-align: right; }
  .totals td { border-top: 1px dashed #000; }
</style>
</head>
<body>
  <div class="header">
    <h3>{{.OrderNumber}}</h3>
    <div>{{title .CustomerName}}</div>
    {{if .ShippingCity}}<div>{{title .ShippingCity}}</div>{{end}}
  </div>
  <table>
    <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
    {{range .Lines}}
    <tr>
      <td>{{.VariantName}} ({{.SKU}})</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{money .UnitPrice}}</td>
      <td class="num">{{money .LineTotal}}</td>
    </tr>
    {{end}}
    <tr class="totals"><td colspan="3">Subtotal</td><td class="num">{{money .Subtotal}}</td></tr>
    <tr><td colspan="3">Shipping</td><td class="num">{{money .ShippingCost}}</td></tr>
    <tr><td colspan="3">Discount</td><td class="num">-{{money .Discount}}</td></tr>
    <tr><td colspan="3"><strong>Total</strong></td><td class="num"><strong>{{money .Total}}</strong></td></tr>
  </table>
  <div class="header">Status: {{.StatusCode}}</div>
</body>
</html>`

const invoiceDocumentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: monospace; font-size: 12px; margin: 0; }
  .header { text-align: center; margin-bottom: 8px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { text-align: left; padding: 2px 4px; }
  .num { text-align: right; }
  .totals td { border-top: 1px dashed #000; }
</style>
</head>
<body>
  <div class="header">
    <h3>{{.ReceiptNumber}}</h3>
    {{if .SupplierName}}<div>{{title .SupplierName}}</div>{{end}}
    <div>Status: {{.Status}}</div>
  </div>
  <table>
    <tr><th>Item</th><th class="num">Qty</th><th class="num">Unit cost</th><th class="num">Total</th></tr>
    {{range .Lines}}
    <tr>
      <td>{{.VariantName}} ({{.SKU}})</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{money .UnitCost}}</td>
      <td class="num">{{money .LineTotal}}</td>
    </tr>
    {{end}}
    <tr class="totals"><td colspan="3">Total</td><td class="num">{{money .Total}}</td></tr>
    <tr><td colspan="3">Paid</td><td class="num">{{money .PaidAmount}}</td></tr>
    <tr><td colspan="3"><strong>Remaining</strong></td><td class="num"><strong>{{money .RemainingAmount}}</strong></td></tr>
  </table>
  {{if .Notes}}<div>{{.Notes}}</div>{{end}}
</body>
</html>`
