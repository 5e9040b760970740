// Package template materializes mock response templates.
//
// A template is a JSON document whose string leaves may embed placeholder
// tokens of the form {{name}}. Each occurrence is replaced by a freshly
// generated value when the template is materialized:
//
//   - {{uuid}} - random UUID v4
//   - {{name}}, {{firstName}}, {{lastName}} - person names
//   - {{email}}, {{phone}} - contact details
//   - {{address}}, {{city}}, {{country}}, {{zipCode}} - location parts
//   - {{date}} - recent ISO-8601 timestamp
//   - {{number}} - integer in [0,1000)
//   - {{boolean}} - "true" or "false"
//
// Unknown tokens are left in place. Templates that fail to parse
// materialize to {"error":"Invalid JSON template"}.
package template
