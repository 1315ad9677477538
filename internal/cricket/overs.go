package cricket

import "fmt"

// BallPosition stamps a delivery with its zero-based over and one-based ball number,
// given the innings' legal-ball count before the delivery.
//
// A legal delivery takes the next legal slot. A wide or no-ball is stamped with the
// slot that is still to be bowled and does not advance the count.
func BallPosition(legalBalls int, legal bool) (overNo, ballInOver int) {
	if legal {
		index := legalBalls + 1
		return (index - 1) / BallsPerOver, ((index - 1) % BallsPerOver) + 1
	}
	return legalBalls / BallsPerOver, (legalBalls % BallsPerOver) + 1
}

// FormatOvers renders a legal-ball count in the conventional "overs.balls" form, e.g. 14 -> "2.2".
func FormatOvers(legalBalls int) string {
	return fmt.Sprintf("%d.%d", legalBalls/BallsPerOver, legalBalls%BallsPerOver)
}
