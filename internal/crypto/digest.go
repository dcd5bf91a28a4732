package crypto

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/hippodrome/internal/model"
)

// ResultDigest returns the hex BLAKE2b-256 digest of a finalized round.
// Encoding (little-endian): round int32, distance float64, then per ranking
// position int32, horse id int32, finish time float64.
// Timestamps and run ids are not part of the digest.
func ResultDigest(roundNumber int, distance float64, rankings []model.RaceOutcome) string {
	buf := make([]byte, 0, 12+len(rankings)*16)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(roundNumber)))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(distance))

	for _, r := range rankings {
		var horseID int32
		if r.Horse != nil {
			horseID = r.Horse.ID
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(r.Position)))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(horseID))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.FinishTime))
	}

	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// VerifyResult reports whether r.Digest matches its content.
func VerifyResult(r model.HistoricalResult) bool {
	return r.Digest == ResultDigest(r.RoundNumber, r.Distance, r.Rankings)
}
