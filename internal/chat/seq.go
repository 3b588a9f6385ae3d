package chat

import "github.com/bwmarrin/snowflake"

// Seq converts a platform snowflake id into a monotonic sequence number.
// Snowflakes embed their creation time in the high bits, so ids issued
// later compare greater regardless of the channel they belong to.
func Seq(id string) (uint64, bool) {
	sf, err := snowflake.ParseString(id)
	if err != nil || sf.Int64() <= 0 {
		return 0, false
	}
	return uint64(sf.Int64()), true
}
