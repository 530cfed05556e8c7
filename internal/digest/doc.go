// Package digest computes content digests and maintains the persistent
// digest cache that drives brix's incremental rebuilds.
package digest
