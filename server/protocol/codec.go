// Package protocol re-exports the packet-construction boundary declared in
// server/world (world.Codec) under the name other packages in this module
// import it by. The actual Minecraft wire codec implementing it is an
// external collaborator (spec §1).
package protocol

import "github.com/voxelplots/server/server/world"

// Codec is the packet-construction boundary the simulation calls into.
type Codec = world.Codec

// BlockChange is one entry of a multi-block-change batch.
type BlockChange = world.BlockChange
