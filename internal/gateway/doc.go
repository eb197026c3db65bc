// Package gateway serves the local HTTP facade in front of the World Labs
// API. It injects the provider credential into forwarded requests so capture
// clients never hold the key, and passes provider responses through verbatim.
package gateway
