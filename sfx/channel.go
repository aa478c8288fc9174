package sfx

// Channel is one reusable output slot of a Pool. Its configuration is
// overwritten in place by every play request that lands on it.
type Channel struct {
	index    int
	voice    Voice
	clip     *Clip
	settings Settings
}

// Index returns the channel position inside its pool
func (c *Channel) Index() int {
	return c.index
}

// IsBusy reports whether the channel voice is still outputting a clip
func (c *Channel) IsBusy() bool {
	return c.voice.IsBusy()
}

// Clip returns the clip last assigned to the channel
func (c *Channel) Clip() *Clip {
	return c.clip
}

// Settings returns the parameters last applied to the channel
func (c *Channel) Settings() Settings {
	return c.settings
}

// Voice returns the output capability behind the channel
func (c *Channel) Voice() Voice {
	return c.voice
}

func (c *Channel) configure(clip *Clip, s Settings) {
	c.clip = clip
	c.settings = s
}

func (c *Channel) play() {
	c.voice.Start(c.clip, c.settings)
}
