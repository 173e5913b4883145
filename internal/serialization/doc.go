// Package serialization saves and loads trained networks in the .dnet
// checkpoint format.
//
//	Format Structure:
//	  [4 bytes: Magic "DNET"]
//	  [4 bytes: Version (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON metadata]
//	  [Padding to an 8-byte boundary]
//	  [Parameters: float64 LE, flat layer-major layout]
//
// The header carries the architecture, so a checkpoint is self-describing:
// Load rebuilds the network from the header and then restores its
// parameters. The SHA-256 checksum of the parameter section is stored in
// the header and verified on load.
//
// Example usage:
//
//	// Save a trained network
//	err := serialization.Save("model.dnet", net, serialization.Header{
//	    Metadata: map[string]string{"dataset": "train.txt"},
//	})
//
//	// Load it back
//	net, header, err := serialization.Load("model.dnet")
package serialization
