package hilbert

import "math/big"

// The big-integer kernel mirrors kernel_primitive.go's bit-interleaving
// algorithm (airmap/sfc's hilbert.go) exactly, operand for operand, but
// against *big.Int so nDims*nBits may exceed 64. It is slower and is
// only selected when the primitive kernel's width limit is exceeded.

var big1 = big.NewInt(1)

func onesBig(k uint) *big.Int {
	r := new(big.Int).Lsh(big1, k)
	return r.Sub(r, big1)
}

func reverseBig(b []*big.Int) []*big.Int {
	r := make([]*big.Int, len(b))
	for i := range b {
		r[len(b)-1-i] = b[i]
	}
	return r
}

func adjustRotationBig(rotation, nDims uint, bits *big.Int) uint {
	nd1Ones := onesBig(nDims)
	nd1Ones.Rsh(nd1Ones, 1)

	lowestSet := new(big.Int).Neg(bits)
	lowestSet.And(lowestSet, bits)
	lowestSet.And(lowestSet, nd1Ones)

	for lowestSet.Sign() != 0 {
		lowestSet.Rsh(lowestSet, 1)
		rotation++
	}
	rotation++
	if rotation >= nDims {
		rotation -= nDims
	}

	return rotation
}

func rotateLeftBig(arg *big.Int, nRots, nDims uint) *big.Int {
	left := new(big.Int).Lsh(arg, nRots)
	right := new(big.Int).Rsh(arg, nDims-nRots)
	r := left.Or(left, right)
	return r.And(r, onesBig(nDims))
}

func rotateRightBig(arg *big.Int, nRots, nDims uint) *big.Int {
	right := new(big.Int).Rsh(arg, nRots)
	left := new(big.Int).Lsh(arg, nDims-nRots)
	r := right.Or(right, left)
	return r.And(r, onesBig(nDims))
}

func bitTransposeBig(nDims, nBits uint, inCoords *big.Int) *big.Int {
	nDims1 := nDims - 1
	inB := nBits
	inFieldEnds := big.NewInt(1)
	inMask := onesBig(inB)
	coords := big.NewInt(0)
	inCoords = new(big.Int).Set(inCoords)

	for utB := inB / 2; utB != 0; utB = inB / 2 {
		shiftAmt := nDims1 * utB
		utFieldEnds := new(big.Int).Lsh(inFieldEnds, shiftAmt+utB)
		utFieldEnds.Or(utFieldEnds, inFieldEnds)
		utMask := new(big.Int).Lsh(utFieldEnds, utB)
		utMask.Sub(utMask, utFieldEnds)
		utCoords := big.NewInt(0)

		if inB&1 != 0 {
			inFieldStarts := new(big.Int).Lsh(inFieldEnds, inB-1)
			oddShift := 2 * shiftAmt

			for d := uint(0); d < nDims; d++ {
				in := new(big.Int).And(inCoords, inMask)
				inCoords.Rsh(inCoords, inB)

				starts := new(big.Int).And(in, inFieldStarts)
				starts.Lsh(starts, oddShift)
				coords.Or(coords, starts)
				oddShift++

				notStarts := new(big.Int).Not(inFieldStarts)
				in.And(in, notStarts)
				shifted := new(big.Int).Lsh(in, shiftAmt)
				in.Or(in, shifted)
				in.And(in, utMask)
				in.Lsh(in, d*utB)
				utCoords.Or(utCoords, in)
			}
		} else {
			for d := uint(0); d < nDims; d++ {
				in := new(big.Int).And(inCoords, inMask)
				inCoords.Rsh(inCoords, inB)
				shifted := new(big.Int).Lsh(in, shiftAmt)
				in.Or(in, shifted)
				in.And(in, utMask)
				in.Lsh(in, d*utB)
				utCoords.Or(utCoords, in)
			}
		}

		inCoords = utCoords
		inB = utB
		inFieldEnds = utFieldEnds
		inMask = utMask
	}

	coords.Or(coords, inCoords)
	return coords
}

// decodeUniformBig is the big.Int counterpart of decodeUniform64.
func decodeUniformBig(nDims, nBits uint, index *big.Int, coord []*big.Int) {
	if len(coord) != int(nDims) {
		panic("coord must have a length equal to nDims")
	}

	if nDims > 1 {
		coords := big.NewInt(0)
		nbOnes := onesBig(nBits)

		if nBits > 1 {
			nDimsBits := nDims * nBits
			ndOnes := onesBig(nDims)
			b := nDimsBits
			rotation := uint(0)
			flipBit := big.NewInt(0)
			nthbits := new(big.Int).Div(onesBig(nDimsBits), ndOnes)

			index = new(big.Int).Set(index)
			tmp := new(big.Int).Xor(index, nthbits)
			tmp.Rsh(tmp, 1)
			index.Xor(index, tmp)

			for {
				b -= nDims
				bits := new(big.Int).Rsh(index, b)
				bits.And(bits, ndOnes)

				coords.Lsh(coords, nDims)
				rotated := rotateLeftBig(bits, rotation, nDims)
				rotated.Xor(rotated, flipBit)
				coords.Or(coords, rotated)

				flipBit = new(big.Int).Lsh(big1, rotation)
				rotation = adjustRotationBig(rotation, nDims, bits)

				if b == 0 {
					break
				}
			}

			for b = nDims; b < nDimsBits; b *= 2 {
				shifted := new(big.Int).Rsh(coords, b)
				coords.Xor(coords, shifted)
			}
			coords = bitTransposeBig(nBits, nDims, coords)
		} else {
			shifted := new(big.Int).Rsh(index, 1)
			coords.Xor(index, shifted)
		}

		for d := uint(0); d < nDims; d++ {
			coord[nDims-d-1] = new(big.Int).And(coords, nbOnes)
			coords.Rsh(coords, nBits)
		}
	} else {
		coord[0] = new(big.Int).Set(index)
	}
}

// encodeUniformBig is the big.Int counterpart of encodeUniform64.
func encodeUniformBig(nDims, nBits uint, coord []*big.Int) *big.Int {
	coord = reverseBig(coord)
	if nDims > 1 {
		nDimsBits := nDims * nBits
		coords := big.NewInt(0)

		for d := int(nDims - 1); d >= 0; d-- {
			coords.Lsh(coords, nBits)
			coords.Or(coords, coord[d])
		}

		var index *big.Int
		if nBits > 1 {
			ndOnes := onesBig(nDims)
			b := nDimsBits
			rotation := uint(0)
			flipBit := big.NewInt(0)
			nthbits := new(big.Int).Div(onesBig(nDimsBits), ndOnes)

			coords = bitTransposeBig(nDims, nBits, coords)
			shifted := new(big.Int).Rsh(coords, nDims)
			coords.Xor(coords, shifted)
			index = big.NewInt(0)

			for {
				b -= nDims
				bits := new(big.Int).Rsh(coords, b)
				bits.And(bits, ndOnes)
				bits.Xor(bits, flipBit)
				bits = rotateRightBig(bits, rotation, nDims)

				index.Lsh(index, nDims)
				index.Or(index, bits)

				flipBit = new(big.Int).Lsh(big1, rotation)
				rotation = adjustRotationBig(rotation, nDims, bits)

				if b == 0 {
					break
				}
			}

			half := new(big.Int).Rsh(nthbits, 1)
			index.Xor(index, half)
		} else {
			index = coords
		}

		for d := uint(1); d < nDimsBits; d *= 2 {
			shifted := new(big.Int).Rsh(index, d)
			index.Xor(index, shifted)
		}

		return index
	}

	return new(big.Int).Set(coord[0])
}
