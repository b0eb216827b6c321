// Package mail defines the provider-independent message and thread types
// shared by the classification and analysis pipeline.
package mail
