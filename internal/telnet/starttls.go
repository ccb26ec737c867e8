package telnet

const startTLSFollows = 1

func decodeStartTLS(d *subDecoder) {
	cmd := d.u8(0)
	if cmd != startTLSFollows {
		d.invalidSubcommand(0, cmd)
		d.raw(d.t, 1, "Data")
		return
	}
	d.t.Field(0, 1, "telnet.starttls.cmd", cmd, "Command: FOLLOWS")
	d.extra(1)
	if d.sess.offerStartTLS(d.pkt.Frame, d.pkt.Src.Port()) {
		d.e.switchToTLS(d.ctx, d.sess, d.pkt, "starttls")
	}
}
