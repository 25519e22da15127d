// Package channel owns the per-channel pipeline state: routing from wire tags
// to channel identities, the bounded queues that cross the acquisition/consumer
// boundary, and the rolling display windows.
package channel

// NumChannels is the number of logical channels multiplexed on the stream.
const NumChannels = 6

// ID identifies one logical channel, 0-based.
type ID int

// nodeTags maps channel index to the device node identifier in its two-digit
// hex form. The device tags frames with bytes 0x31..0x36.
var nodeTags = [NumChannels]string{"31", "32", "33", "34", "35", "36"}

// Route maps a frame tag to its channel. Tags outside the node table report
// ok == false; stray traffic from unrelated devices on a shared bus is
// expected and simply not routed.
func Route(tag string) (ID, bool) {
	for i, t := range nodeTags {
		if t == tag {
			return ID(i), true
		}
	}
	return 0, false
}

// Tag returns the wire tag for a channel.
func (id ID) Tag() string {
	return nodeTags[id]
}
