package session

import (
	"github.com/voxelplots/server/server/backend"
	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/plot"
	"github.com/voxelplots/server/server/world"
)

// PlayHandler dispatches Play-state packets for one resident player to its
// plot worker. One PlayHandler is constructed per player once they are
// promoted to Play; it is discarded on disconnect or plot transfer.
type PlayHandler struct {
	Worker *plot.Worker
	Player *player.Player
}

// HandleBreakBlock services a player-initiated direct block break (§4.2.5,
// §8 scenario 4). On rejection it resyncs the client by resending the
// block's true state.
func (h *PlayHandler) HandleBreakBlock(pos world.BlockPos) {
	switch h.Worker.HandleBreakBlock(pos) {
	case plot.BreakRejectedOutOfBounds:
		h.resync(pos, "Can't break blocks outside of plot")
	case plot.BreakRejectedIOOnly:
		h.resync(pos, plot.ErrIOOnly)
	}
}

// HandleUseBlock services a player's right-click on a block.
func (h *PlayHandler) HandleUseBlock(pos world.BlockPos, crouching bool) {
	if h.Worker.HandleUseBlock(pos, crouching) == plot.UseRejectedIOOnly {
		h.resync(pos, plot.ErrIOOnly)
	}
}

// HandleStartBackend services a "/redpiler" start command.
func (h *PlayHandler) HandleStartBackend(options backend.Options, name string) {
	h.Worker.StartBackend(options, name, h.Player)
}

// HandleResetBackend services a "/redpiler reset" command.
func (h *PlayHandler) HandleResetBackend() {
	h.Worker.ResetBackend()
}

// resync sends the client the cancel message and the true block state,
// undoing any optimistic client-side prediction of the edit.
func (h *PlayHandler) resync(pos world.BlockPos, message string) {
	if h.Player.Client == nil {
		return
	}
	h.Player.Client.SendPacket(world.PacketBytes(message))
	codec := h.Worker.World().Codec()
	if codec != nil {
		h.Player.Client.SendPacket(codec.BlockUpdate(pos, h.Worker.World().GetBlockRaw(pos)))
	}
}
