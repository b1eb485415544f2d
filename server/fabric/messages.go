// Package fabric implements the Messaging Fabric (C6): the broadcast bus, the
// server inbox, and the private per-plot inboxes that connect C7 and every
// plot worker. Each carrier is a Go channel; backpressure blocks the producer
// rather than dropping messages, per spec §4.3.
package fabric

import (
	"github.com/google/uuid"

	"github.com/voxelplots/server/server/player"
)

// BroadcastMessage is sent by C7 to every plot worker over the broadcast bus.
type BroadcastMessage interface{ isBroadcast() }

type Chat struct {
	UUID uuid.UUID
	Text string
}

type PlayerJoinInfo struct {
	UUID     uuid.UUID
	Username string
	Gamemode player.Gamemode
}

type PlayerJoinedInfo struct{ Info PlayerJoinInfo }

type PlayerLeftBroadcast struct{ UUID uuid.UUID }

type PlayerUpdateGamemodeBroadcast struct {
	UUID     uuid.UUID
	Gamemode player.Gamemode
}

type Shutdown struct{}

func (Chat) isBroadcast()                         {}
func (PlayerJoinedInfo) isBroadcast()              {}
func (PlayerLeftBroadcast) isBroadcast()           {}
func (PlayerUpdateGamemodeBroadcast) isBroadcast() {}
func (Shutdown) isBroadcast()                      {}

// Message is sent by a plot worker (or C8) to the server inbox, consumed
// exclusively by C7.
type Message interface{ isServerMessage() }

type ChatInfo struct {
	UUID uuid.UUID
	Text string
}

type PlayerJoined struct{ Player *player.Player }

type PlayerLeft struct{ UUID uuid.UUID }

// PlayerLeavePlot carries a resident player back to C7 for re-routing, e.g.
// because they walked or teleported out of the current plot's bounds.
type PlayerLeavePlot struct{ Player *player.Player }

type PlayerTeleportOtherRequest struct {
	UUID       uuid.UUID
	TargetName string
}

type PlayerUpdateGamemode struct {
	UUID     uuid.UUID
	Gamemode player.Gamemode
}

type PlotUnload struct{ X, Z int32 }

type WhitelistAdd struct {
	UUID uuid.UUID
	Name string
}

type WhitelistRemove struct{ UUID uuid.UUID }

func (ChatInfo) isServerMessage()                   {}
func (PlayerJoined) isServerMessage()                {}
func (PlayerLeft) isServerMessage()                  {}
func (PlayerLeavePlot) isServerMessage()             {}
func (PlayerTeleportOtherRequest) isServerMessage()  {}
func (PlayerUpdateGamemode) isServerMessage()        {}
func (PlotUnload) isServerMessage()                  {}
func (WhitelistAdd) isServerMessage()                {}
func (WhitelistRemove) isServerMessage()             {}
func (Shutdown) isServerMessage()                    {}

// PrivMessage is sent by C7 directly to one plot worker's private inbox.
type PrivMessage interface{ isPrivMessage() }

// PlayerEnterPlot delivers a player C7 has routed to this plot, transferring
// ownership to the receiving worker.
type PlayerEnterPlot struct{ Player *player.Player }

// PlayerTeleportOther delivers a player along with the name of the command's
// target, used when resolving a cross-plot "/tp" to a named player.
type PlayerTeleportOther struct {
	Player     *player.Player
	TargetName string
}

func (PlayerEnterPlot) isPrivMessage()     {}
func (PlayerTeleportOther) isPrivMessage() {}
