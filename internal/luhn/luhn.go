// Package luhn implements the Luhn checksum used by Swedish organization
// and personal identity numbers.
package luhn

// Valid reports whether digits carries a valid Luhn checksum.
// Digits at even zero-based positions are doubled, counting from the left.
// The caller must pass ASCII digits only.
func Valid(digits string) bool {
	return checksum(digits)%10 == 0
}

// CheckDigit returns the digit that makes prefix+digit pass Valid.
// The prefix must have an odd length for the doubling to line up with a
// Swedish 10-digit number (9 digits plus check digit).
func CheckDigit(prefix string) byte {
	sum := checksum(prefix)
	return byte('0' + (10-sum%10)%10)
}

func checksum(digits string) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		v := int(digits[i] - '0')
		if i%2 == 0 {
			v *= 2
			if v > 9 {
				v -= 9
			}
		}
		sum += v
	}
	return sum
}
