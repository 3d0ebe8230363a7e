package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftLSLBasic(t *testing.T) {
	result, carry := shift(LSL, 0x1, 4, false, true)
	assert.Equal(t, uint32(0x10), result)
	assert.False(t, carry)
}

func TestShiftLSLByZeroPassesCarryThrough(t *testing.T) {
	result, carry := shift(LSL, 0xFF, 0, true, true)
	assert.Equal(t, uint32(0xFF), result)
	assert.True(t, carry)
}

func TestShiftLSLByThirtyTwoYieldsZeroAndBit0Carry(t *testing.T) {
	result, carry := shift(LSL, 0x1, 32, false, true)
	assert.Equal(t, uint32(0), result)
	assert.True(t, carry)
}

func TestShiftLSRImmediateZeroIsShiftByThirtyTwo(t *testing.T) {
	result, carry := shift(LSR, 0x80000000, 0, false, true)
	assert.Equal(t, uint32(0), result)
	assert.True(t, carry)
}

func TestShiftLSRByRegisterZeroIsNoOp(t *testing.T) {
	result, carry := shift(LSR, 0xFF, 0, true, false)
	assert.Equal(t, uint32(0xFF), result)
	assert.True(t, carry)
}

func TestShiftASRSignExtendsNegative(t *testing.T) {
	result, carry := shift(ASR, 0x80000000, 4, false, true)
	assert.Equal(t, uint32(0xF8000000), result)
	assert.False(t, carry)
}

func TestShiftASRImmediateZeroOfNegativeFillsOnes(t *testing.T) {
	result, carry := shift(ASR, 0x80000000, 0, false, true)
	assert.Equal(t, uint32(0xFFFFFFFF), result)
	assert.True(t, carry)
}

func TestShiftRORImmediateZeroIsRRX(t *testing.T) {
	result, carry := shift(ROR, 0x1, 0, true, true)
	assert.Equal(t, uint32(0x80000000), result)
	assert.True(t, carry)
}

func TestShiftRORRotatesBits(t *testing.T) {
	result, carry := shift(ROR, 0x1, 4, false, false)
	assert.Equal(t, uint32(0x10000000), result)
	assert.False(t, carry)
}
