// Package webhook contains the webhook aggregate and its delivery audit
// records.
//
// A Webhook is a tenant-owned subscription of an HTTPS endpoint to a set of
// event types. Registration generates the HMAC signing secret exactly once;
// every outbound delivery is signed with it and audited as a Delivery row.
package webhook
