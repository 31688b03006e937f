package pmi

import (
	"math"
	"testing"
)

func TestPMIIndependent(t *testing.T) {
	c := NewCalculator(0)
	// with smoothing, (1+1)*4 / ((1+1)*(3+1)) = 1 -> log 1 = 0
	if got := c.PMI(1, 1, 3, 4); math.Abs(got) > 1e-9 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestPMIAssociated(t *testing.T) {
	c := NewCalculator(1)
	strong := c.PMI(10, 10, 10, 100)
	weak := c.PMI(1, 10, 10, 100)
	if strong <= weak {
		t.Errorf("co-occurring pair should score higher: %f <= %f", strong, weak)
	}
}

func TestPMIZeroDocs(t *testing.T) {
	c := NewCalculator(1)
	if c.PMI(1, 1, 1, 0) != 0 || c.NPMI(1, 1, 1, 0) != 0 {
		t.Error("empty corpus should score 0")
	}
}

func TestNPMIRange(t *testing.T) {
	c := NewCalculator(1)
	for _, tc := range [][4]int64{{5, 10, 10, 100}, {1, 50, 50, 100}, {20, 30, 25, 100}} {
		got := c.NPMI(tc[0], tc[1], tc[2], tc[3])
		if got < -1 || got > 1 {
			t.Errorf("NPMI%v = %f out of range", tc, got)
		}
	}
	if c.NPMI(0, 5, 5, 100) != 0 {
		t.Error("unseen pair should have NPMI 0")
	}
}

func TestCounter(t *testing.T) {
	c := NewCounter()
	c.Add([]string{"durability", "value", "durability", ""})
	c.Add([]string{"value", "durability"})
	c.Add([]string{"value"})

	if c.N != 3 {
		t.Errorf("N = %d", c.N)
	}
	if c.DF["durability"] != 2 || c.DF["value"] != 3 {
		t.Errorf("DF = %v", c.DF)
	}
	if c.Together("value", "durability") != 2 {
		t.Errorf("Together = %d", c.Together("value", "durability"))
	}
	if _, ok := c.DF[""]; ok {
		t.Error("empty item counted")
	}

	clone := c.Clone()
	clone.Add([]string{"x"})
	if c.N != 3 || c.DF["x"] != 0 {
		t.Error("clone shares state with original")
	}
}
