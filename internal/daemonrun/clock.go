package daemonrun

import "time"

var timeNow = time.Now
