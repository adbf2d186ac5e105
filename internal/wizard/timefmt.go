package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// To24 converts a 12-hour clock reading to "HH:MM". 12 AM is midnight.
func To24(hour, minute, ampm string) (string, error) {
	h, err := strconv.Atoi(strings.TrimSpace(hour))
	if err != nil || h < 1 || h > 12 {
		return "", fmt.Errorf("invalid hour %q", hour)
	}
	m, err := strconv.Atoi(strings.TrimSpace(minute))
	if err != nil || m < 0 || m > 59 {
		return "", fmt.Errorf("invalid minute %q", minute)
	}

	switch strings.ToUpper(strings.TrimSpace(ampm)) {
	case "AM":
		if h == 12 {
			h = 0
		}
	case "PM":
		if h != 12 {
			h += 12
		}
	default:
		return "", fmt.Errorf("invalid meridiem %q", ampm)
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// From24 splits "HH:MM" (seconds ignored) into a 12-hour hour, minute and
// meridiem, e.g. "14:05" → "02", "05", "PM".
func From24(t string) (hour, minute, ampm string, err error) {
	parts := strings.Split(strings.TrimSpace(t), ":")
	if len(parts) < 2 {
		return "", "", "", fmt.Errorf("invalid time %q", t)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", "", "", fmt.Errorf("invalid time %q", t)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return "", "", "", fmt.Errorf("invalid time %q", t)
	}

	ampm = "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d", h12), fmt.Sprintf("%02d", m), ampm, nil
}

// Normalize24 accepts "9:00", "09:00", "9:00 PM" or "09:00:00" and returns
// "HH:MM". Empty input stays empty.
func Normalize24(t string) (string, error) {
	t = strings.TrimSpace(t)
	if t == "" {
		return "", nil
	}

	fields := strings.Fields(t)
	if len(fields) == 2 {
		hm := strings.SplitN(fields[0], ":", 2)
		if len(hm) != 2 {
			return "", fmt.Errorf("invalid time %q", t)
		}
		return To24(hm[0], hm[1], fields[1])
	}

	h, m, ampm, err := From24(t)
	if err != nil {
		return "", err
	}
	return To24(h, m, ampm)
}

// Display12 renders "HH:MM" as "h:MM AM/PM". Unparseable input is returned
// unchanged.
func Display12(t string) string {
	h, m, ampm, err := From24(t)
	if err != nil {
		return t
	}
	n, _ := strconv.Atoi(h)
	return fmt.Sprintf("%d:%s %s", n, m, ampm)
}
