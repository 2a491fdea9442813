// Package protocol implements the receive-side codec for the scene
// control channel. One message is one UTF-8 JSON object of the form
//
//	{ "intent": "<name>", "parameters": { ... } }
//
// The channel is fire-and-forget: no response direction exists, and
// dispatch outcomes surface only through logs and metrics.
package protocol
