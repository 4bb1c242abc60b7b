package transport

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/suite"
)

type PortTableTestSuite struct {
	suite.Suite

	table *PortTable
}

func TestPortTableTestSuite(t *testing.T) {
	suite.Run(t, new(PortTableTestSuite))
}

func (s *PortTableTestSuite) SetupTest() {
	s.table = NewPortTable(EphemeralPortOptions{
		Range:  [2]uint16{1, 2}, // only result in 1
		Rand:   func() uint16 { return uint16(rand.Uint()) },
		MaxTry: 1,
	})
}

func (s *PortTableTestSuite) TestOccupy() {
	port := uint16(100)

	result, release, err := s.table.Occupy(port)
	s.Require().NoError(err)
	s.Require().Equal(port, result)
	s.Require().NotNil(release)

	_, again, err := s.table.Occupy(port)
	s.Require().ErrorIs(err, ErrAddrAlreadyInUse)
	s.Require().Nil(again)

	release()
	release() // no-op

	result, _, err = s.table.Occupy(port)
	s.Require().NoError(err)
	s.Require().Equal(port, result)
}

func (s *PortTableTestSuite) TestOccupyEphemeral() {
	result, release, err := s.table.Occupy(0)
	s.Require().NoError(err)
	s.Require().Equal(uint16(1), result)
	s.Require().NotNil(release)

	_, _, err = s.table.Occupy(0)
	s.Require().ErrorIs(err, ErrNoEphemeralPort)

	release()

	result, _, err = s.table.Occupy(0)
	s.Require().NoError(err)
	s.Require().Equal(uint16(1), result)
}

func (s *PortTableTestSuite) TestInvalidOptions() {
	s.Panics(func() {
		NewPortTable(EphemeralPortOptions{Range: [2]uint16{5, 5}, Rand: func() uint16 { return 0 }})
	})
	s.Panics(func() {
		NewPortTable(EphemeralPortOptions{Range: [2]uint16{1, 5}})
	})
}
