package tz

import "time"

// Tokyo is the Asia/Tokyo location (JST, no DST). Schedules and deadlines
// entered on the CLI are interpreted in this zone.
var Tokyo *time.Location

func init() {
	var err error
	Tokyo, err = time.LoadLocation("Asia/Tokyo")
	if err != nil {
		panic("tz: load Asia/Tokyo: " + err.Error())
	}
}
