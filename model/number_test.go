package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberFromFloat(t *testing.T) {
	testCases := []struct {
		f         float64
		precision int8
		wantS     string
	}{
		{
			f:         1.1,
			precision: 1,
			wantS:     "1.1",
		}, {
			f:         1.12,
			precision: 1,
			wantS:     "1.1",
		}, {
			f:         1.25,
			precision: 1,
			wantS:     "1.3",
		}, {
			f:         0.12,
			precision: 0,
			wantS:     "0",
		},
	}

	for _, kase := range testCases {
		t.Run(kase.wantS, func(t *testing.T) {
			n := NumberFromFloat(kase.f, kase.precision)
			assert.Equal(t, kase.wantS, n.AsString())
		})
	}
}

func TestNumberFromFloatRoundTruncate(t *testing.T) {
	testCases := []struct {
		f         float64
		precision int8
		wantS     string
	}{
		{
			f:         1.19,
			precision: 1,
			wantS:     "1.1",
		}, {
			f:         1.15,
			precision: 1,
			wantS:     "1.1",
		}, {
			f:         0.99,
			precision: 0,
			wantS:     "0",
		},
	}

	for _, kase := range testCases {
		t.Run(kase.wantS, func(t *testing.T) {
			n := NumberFromFloatRoundTruncate(kase.f, kase.precision)
			assert.Equal(t, kase.wantS, n.AsString())
		})
	}
}

func TestMath(t *testing.T) {
	testCases := []struct {
		n1           *Number
		n2           *Number
		wantAdd      string
		wantSubtract string
		wantMultiply string
		wantDivide   string
	}{
		{
			n1:           NumberFromFloat(10.0, 2),
			n2:           NumberFromFloat(4.0, 2),
			wantAdd:      "14.00",
			wantSubtract: "6.00",
			wantMultiply: "40.00",
			wantDivide:   "2.50",
		}, {
			n1:           NumberFromFloat(1.12, 2),
			n2:           NumberFromFloat(2.0, 1),
			wantAdd:      "3.1",
			wantSubtract: "-0.9",
			wantMultiply: "2.2",
			wantDivide:   "0.6",
		},
	}

	for _, kase := range testCases {
		t.Run(fmt.Sprintf("%s_%s", kase.n1.AsString(), kase.n2.AsString()), func(t *testing.T) {
			assert.Equal(t, kase.wantAdd, kase.n1.Add(*kase.n2).AsString())
			assert.Equal(t, kase.wantSubtract, kase.n1.Subtract(*kase.n2).AsString())
			assert.Equal(t, kase.wantMultiply, kase.n1.Multiply(*kase.n2).AsString())
			assert.Equal(t, kase.wantDivide, kase.n1.Divide(*kase.n2).AsString())
		})
	}
}

func TestCountDecimalPlaces(t *testing.T) {
	testCases := []struct {
		f    float64
		want int8
	}{
		{
			f:    100.0,
			want: 0,
		}, {
			f:    0.1,
			want: 1,
		}, {
			f:    9358.25,
			want: 2,
		}, {
			f:    0.00054,
			want: 5,
		},
	}

	for _, kase := range testCases {
		t.Run(fmt.Sprintf("%f", kase.f), func(t *testing.T) {
			assert.Equal(t, kase.want, CountDecimalPlaces(kase.f))
		})
	}
}
