package chat

// roomSeparator joins the two participant ids into a room id.
const roomSeparator = "_"

// RoomID derives the shared room for two participants. The ids are
// sorted lexicographically first, so either side can compute the same
// room without a lookup, regardless of who joins first.
func RoomID(idA, idB string) string {
	if idB < idA {
		idA, idB = idB, idA
	}
	return idA + roomSeparator + idB
}
