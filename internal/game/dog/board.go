package dog

// Board geometry. The shared track occupies squares [0,64). Each player i
// owns a kennel block [64+8i, 64+8i+3] and a finish lane [68+8i, 68+8i+3].
// Player i enters the track at square 16i and peels into the finish lane
// after passing that square.
const (
	PlayerCount      = 4
	MarblesPerPlayer = 4
	TrackSize        = 64
	FinishLaneSize   = 4

	kennelBase = 64
	finishBase = 68
	zoneStride = 8
)

// KennelStart returns the first kennel square of player idx.
func KennelStart(idx int) int {
	return kennelBase + zoneStride*idx
}

// FinishStart returns the first finish-lane square of player idx.
func FinishStart(idx int) int {
	return finishBase + zoneStride*idx
}

// TrackEntry returns the track square where player idx's marbles enter play.
func TrackEntry(idx int) int {
	return 16 * idx
}

// OnTrack reports whether pos is one of the shared track squares.
func OnTrack(pos int) bool {
	return pos >= 0 && pos < TrackSize
}

// InKennel reports whether pos is inside player idx's kennel block.
func InKennel(idx, pos int) bool {
	start := KennelStart(idx)
	return pos >= start && pos < start+MarblesPerPlayer
}

// InFinish reports whether pos is inside player idx's finish lane.
func InFinish(idx, pos int) bool {
	start := FinishStart(idx)
	return pos >= start && pos < start+FinishLaneSize
}

// PartnerIndex returns the seat of player idx's teammate.
func PartnerIndex(idx int) int {
	return (idx + 2) % PlayerCount
}

// trackDistance returns the forward distance from a to b along the circular
// track.
func trackDistance(a, b int) int {
	return ((b - a) % TrackSize + TrackSize) % TrackSize
}
