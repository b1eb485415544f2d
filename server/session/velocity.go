package session

import (
	"encoding/binary"
	"errors"

	"github.com/google/uuid"
)

// decodeVelocityResponse parses the signed portion of a Velocity
// player-info plugin response: a version byte, a 16-byte UUID, and a
// length-prefixed username. Velocity also appends a property list (skins,
// capes); this server does not consume it, so it is ignored once present.
func decodeVelocityResponse(signed []byte) (id uuid.UUID, username string, err error) {
	if len(signed) < 1+16+2 {
		return uuid.UUID{}, "", errShortVelocityPayload
	}
	off := 1 // version byte, unused beyond being present
	copy(id[:], signed[off:off+16])
	off += 16
	nameLen := int(binary.BigEndian.Uint16(signed[off : off+2]))
	off += 2
	if off+nameLen > len(signed) {
		return uuid.UUID{}, "", errShortVelocityPayload
	}
	username = string(signed[off : off+nameLen])
	return id, username, nil
}

var errShortVelocityPayload = errors.New("session: velocity response payload too short")
