// Package cli implements ideactl, the administrator command line for the
// idea bank: hashing admin passwords for the configuration and batch
// uploading files to the configured File Mirror.
package cli
