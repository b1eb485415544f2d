// Package session implements the per-connection handshake and login state
// machine (C8): {Handshaking, Status, Login, Configuration, Play}.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/voxelplots/server/server/player"
	"github.com/voxelplots/server/server/world"
)

// MCVersion and ProtocolVersion are the pinned Java Edition version this
// server's wire codec implements. A handshake advertising any other protocol
// version is rejected (spec §4.5, §6).
const (
	MCVersion       = "1.20.4"
	ProtocolVersion = 765

	// CompressionThreshold is applied once login completes.
	CompressionThreshold = 256
)

// State is a connection's position in the handshake/login/play state machine.
type State uint8

const (
	Handshaking State = iota
	Status
	Login
	Configuration
	Play
)

// Conn is the narrow transport surface a Session drives. The wire codec
// itself (reading/writing actual Minecraft packets) is an external
// collaborator; Session only calls these named operations.
type Conn interface {
	SendDisconnect(reason string)
	SendStatusResponse(motd string, maxPlayers, onlinePlayers int, protocolVersion int32, versionName string)
	SendPong(payload int64)
	SendLoginSuccess(id uuid.UUID, username string)
	SendSetCompression(threshold int32)
	EnableCompression(threshold int32)
	SendPluginMessage(channel string, data []byte)
	SendFinishConfiguration()
	RequestLoginPlugin(messageID int32, channel string) (data []byte, understood bool, err error)
	SendPlay(p *player.Player)
	world.PacketSink
}

// Session tracks one connection's state-machine progress from first byte to
// Play-state promotion.
type Session struct {
	log   *slog.Logger
	conn  Conn
	state State

	velocity VelocityConfig

	forwardingMessageID int32
	username             string
}

// VelocityConfig configures Velocity-style proxy forwarding at login (spec
// §4.5, §6 "velocity: { enabled, secret }").
type VelocityConfig struct {
	Enabled bool
	Secret  []byte
}

// New returns a Session ready to process a fresh connection in the
// Handshaking state.
func New(log *slog.Logger, conn Conn, velocity VelocityConfig) *Session {
	return &Session{log: log, conn: conn, state: Handshaking, velocity: velocity}
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// ErrVersionMismatch is returned (and already communicated to the client via
// SendDisconnect) when a Login-bound handshake names a different protocol
// version than ProtocolVersion.
var ErrVersionMismatch = errors.New("session: protocol version mismatch")

// HandleHandshake processes the initial Handshake packet. nextState is 1 for
// Status, 2 for Login, matching the vanilla wire encoding.
func (s *Session) HandleHandshake(protocolVersion int32, nextState int32) error {
	switch nextState {
	case 1:
		s.state = Status
		return nil
	case 2:
		if protocolVersion != ProtocolVersion {
			s.conn.SendDisconnect(`{"text":"Version mismatch, I'm on ` + MCVersion + `!"}`)
			return ErrVersionMismatch
		}
		s.state = Login
		return nil
	default:
		return errors.New("session: invalid handshake next_state")
	}
}

// HandleStatusRequest answers a Status-state status request.
func (s *Session) HandleStatusRequest(motd string, maxPlayers, onlinePlayers int) {
	s.conn.SendStatusResponse(motd, maxPlayers, onlinePlayers, ProtocolVersion, MCVersion)
}

// HandleStatusPing answers a Status-state ping with the same payload.
func (s *Session) HandleStatusPing(payload int64) {
	s.conn.SendPong(payload)
}

// LoginResult is the outcome of completing the Login state, carrying the
// identity to construct a Player with once Play promotion happens.
type LoginResult struct {
	UUID     uuid.UUID
	Username string
}

// HandleLoginStart begins login for username. If Velocity forwarding is
// enabled, this sends a login-plugin request and blocks (via conn) until the
// proxy responds; otherwise it derives an offline UUID immediately.
func (s *Session) HandleLoginStart(username string) (LoginResult, error) {
	s.username = username
	if !s.velocity.Enabled {
		return s.completeLogin(player.OfflineUUID(username), username)
	}

	s.forwardingMessageID = rand.Int31()
	data, understood, err := s.conn.RequestLoginPlugin(s.forwardingMessageID, "velocity:player_info")
	if err != nil {
		return LoginResult{}, err
	}
	if !understood {
		s.log.Error("velocity forwarding channel not understood by client")
		return LoginResult{}, errors.New("session: velocity forwarding rejected by client")
	}
	id, resolvedName, err := verifyVelocityForwarding(data, s.velocity.Secret)
	if err != nil {
		s.log.Error("failed to verify velocity forwarding secret", "err", err)
		return LoginResult{}, fmt.Errorf("session: velocity forwarding: %w", err)
	}
	if resolvedName != "" {
		username = resolvedName
	}
	return s.completeLogin(id, username)
}

func (s *Session) completeLogin(id uuid.UUID, username string) (LoginResult, error) {
	s.conn.SendSetCompression(CompressionThreshold)
	s.conn.EnableCompression(CompressionThreshold)
	s.conn.SendLoginSuccess(id, username)
	return LoginResult{UUID: id, Username: username}, nil
}

// HandleLoginAcknowledged transitions to Configuration and sends the brand,
// registry, and finish-configuration packets (spec §4.5).
func (s *Session) HandleLoginAcknowledged() {
	s.state = Configuration
	s.conn.SendPluginMessage("minecraft:brand", []byte("voxelplots"))
	s.conn.SendPluginMessage("minecraft:registry_data", registryData())
	s.conn.SendFinishConfiguration()
}

// HandleAcknowledgeFinishConfiguration transitions to Play and sends the
// remaining promotion packets (join-game, position, player-info, inventory,
// ...) for p via Conn.SendPlay. The caller constructs p beforehand and emits
// PlayerJoined afterwards.
func (s *Session) HandleAcknowledgeFinishConfiguration(p *player.Player) {
	s.state = Play
	s.conn.SendPlay(p)
}

// verifyVelocityForwarding checks an HMAC-SHA256 signature prefixing the
// Velocity plugin-response payload against secret, and decodes the UUID and
// username Velocity forwarded. The payload layout is [32-byte HMAC][signed
// data]: this function splits the two, checks the HMAC over the signed data,
// and hands the signed data to decodeVelocityResponse.
func verifyVelocityForwarding(payload []byte, secret []byte) (id uuid.UUID, username string, err error) {
	if len(payload) < sha256.Size {
		return uuid.UUID{}, "", errShortVelocityPayload
	}
	signature, signed := payload[:sha256.Size], payload[sha256.Size:]
	mac := hmac.New(sha256.New, secret)
	mac.Write(signed)
	expected := mac.Sum(nil)
	if !hmac.Equal(signature, expected) {
		return uuid.UUID{}, "", errors.New("session: velocity secret verification failed")
	}
	return decodeVelocityResponse(signed)
}

// registryData returns the dimension and biome registry payload sent during
// Configuration. The actual NBT encoding is the wire codec's concern; this
// package only supplies the logical placeholder it encodes.
func registryData() []byte {
	return []byte("minecraft:overworld")
}
