package drill

import "time"

// timerTickMsg is sent every second to refresh the countdown.
type timerTickMsg time.Time
