// Package integrity computes the hashes that turn a journal session into a
// tamper-evident chain.
//
// Why this package exists:
// - It defines the one canonical hash input for an action (its json/v1 bytes).
// - It links entries into a chain so replay order can be checked offline.
// - It isolates hashing details from storage backends, which all seal entries
//   through Seal.
//
// Signing chain hashes is out of scope here; a signature layer can wrap
// ChainHash later without changing the chain format.
package integrity
